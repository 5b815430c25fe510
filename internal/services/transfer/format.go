package transfer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The flat export format has three sections, each a header line followed
// by comma-separated rows:
//
//	PLAYERS
//	name,gamertag
//	...
//
//	SESSIONS
//	sessionId,name,date,isRanked,isPublic,notes,rules
//	...
//
//	GAMES
//	sessionId,gameNumber,date,playerScores,nertsPlayerGamertag,winnerGamertag
//	...
//
// Dates are unix milliseconds. Player scores within a game row are
// encoded as gamertag:score:handicap triples joined by semicolons. Rules
// are an embedded JSON document. String fields are double-quoted with ""
// escaping for literal quotes.

// PlayerRow is one row of the PLAYERS section
type PlayerRow struct {
	Name     string
	Gamertag string
}

// SessionRow is one row of the SESSIONS section. SessionID is only
// meaningful within the file, tying GAMES rows back to their session.
type SessionRow struct {
	SessionID string
	Name      string
	Date      time.Time
	IsRanked  bool
	IsPublic  bool
	Notes     string
	RulesJSON string
}

// GameScoreRow is one player's result within a GAMES row
type GameScoreRow struct {
	Gamertag string
	Score    int
	Handicap int
}

// GameRow is one row of the GAMES section
type GameRow struct {
	SessionID      string
	GameNumber     int
	Date           time.Time
	Scores         []GameScoreRow
	NertsGamertag  string
	WinnerGamertag string
}

// Archive is a parsed or to-be-generated export file
type Archive struct {
	Players  []PlayerRow
	Sessions []SessionRow
	Games    []GameRow
}

// Generate renders an archive into the flat export format
func Generate(a *Archive) string {
	var b strings.Builder

	b.WriteString("PLAYERS\n")
	b.WriteString("name,gamertag\n")
	for _, p := range a.Players {
		fmt.Fprintf(&b, "%s,%s\n", quote(p.Name), quote(p.Gamertag))
	}
	b.WriteString("\n")

	b.WriteString("SESSIONS\n")
	b.WriteString("sessionId,name,date,isRanked,isPublic,notes,rules\n")
	for _, s := range a.Sessions {
		fmt.Fprintf(&b, "%s,%s,%d,%t,%t,%s,%s\n",
			quote(s.SessionID),
			quote(s.Name),
			s.Date.UnixMilli(),
			s.IsRanked,
			s.IsPublic,
			quote(s.Notes),
			quote(s.RulesJSON),
		)
	}
	b.WriteString("\n")

	b.WriteString("GAMES\n")
	b.WriteString("sessionId,gameNumber,date,playerScores,nertsPlayerGamertag,winnerGamertag\n")
	for _, g := range a.Games {
		triples := make([]string, len(g.Scores))
		for i, sc := range g.Scores {
			triples[i] = fmt.Sprintf("%s:%d:%d", sc.Gamertag, sc.Score, sc.Handicap)
		}
		fmt.Fprintf(&b, "%s,%d,%d,%s,%s,%s\n",
			quote(g.SessionID),
			g.GameNumber,
			g.Date.UnixMilli(),
			quote(strings.Join(triples, ";")),
			quote(g.NertsGamertag),
			quote(g.WinnerGamertag),
		)
	}

	return b.String()
}

// Parse reads the flat export format back into an archive. Rows with too
// few fields for their section are skipped; malformed numbers fail the
// parse.
func Parse(content string) (*Archive, error) {
	archive := &Archive{}

	var section string
	skipHeader := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch line {
		case "PLAYERS", "SESSIONS", "GAMES":
			section = line
			skipHeader = true
			continue
		}
		if skipHeader {
			skipHeader = false
			continue
		}
		if section == "" {
			continue
		}

		values := splitLine(line)

		switch section {
		case "PLAYERS":
			if len(values) < 2 {
				continue
			}
			archive.Players = append(archive.Players, PlayerRow{
				Name:     values[0],
				Gamertag: values[1],
			})
		case "SESSIONS":
			if len(values) < 7 {
				continue
			}
			date, err := parseMillis(values[2])
			if err != nil {
				return nil, fmt.Errorf("bad session date %q: %w", values[2], err)
			}
			archive.Sessions = append(archive.Sessions, SessionRow{
				SessionID: values[0],
				Name:      values[1],
				Date:      date,
				IsRanked:  values[3] == "true",
				IsPublic:  values[4] == "true",
				Notes:     values[5],
				RulesJSON: values[6],
			})
		case "GAMES":
			if len(values) < 6 {
				continue
			}
			gameNumber, err := strconv.Atoi(values[1])
			if err != nil {
				return nil, fmt.Errorf("bad game number %q: %w", values[1], err)
			}
			date, err := parseMillis(values[2])
			if err != nil {
				return nil, fmt.Errorf("bad game date %q: %w", values[2], err)
			}
			scores, err := parseScoreTriples(values[3])
			if err != nil {
				return nil, err
			}
			archive.Games = append(archive.Games, GameRow{
				SessionID:      values[0],
				GameNumber:     gameNumber,
				Date:           date,
				Scores:         scores,
				NertsGamertag:  values[4],
				WinnerGamertag: values[5],
			})
		}
	}

	return archive, nil
}

func parseScoreTriples(encoded string) ([]GameScoreRow, error) {
	var scores []GameScoreRow
	for _, part := range strings.Split(encoded, ";") {
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("bad player score entry %q", part)
		}
		score, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("bad score in %q: %w", part, err)
		}
		handicap, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("bad handicap in %q: %w", part, err)
		}
		scores = append(scores, GameScoreRow{
			Gamertag: fields[0],
			Score:    score,
			Handicap: handicap,
		})
	}
	return scores, nil
}

func parseMillis(value string) (time.Time, error) {
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// splitLine splits one comma-separated row, honoring double-quoted fields
// with "" as an escaped literal quote.
func splitLine(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	values = append(values, current.String())

	return values
}
