package predictions

import (
	"github.com/preston-bernstein/prediction-service/internal/client/localstore"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// Source tells where a merged entry came from.
type Source string

const (
	SourceServer Source = "server"
	SourceLocal  Source = "local"
)

// Entry is one row of the profile's prediction list.
type Entry struct {
	GameID string       `json:"gameId"`
	Pick   string       `json:"pick"`
	Amount money.Amount `json:"amount"`
	Result users.Result `json:"result"`
	Source Source       `json:"source"`
}

func (e Entry) identity() string {
	return e.GameID + "|" + e.Pick + "|" + e.Amount.Key()
}

// Merge returns every server prediction, duplicates included, followed by
// each local record whose gameId, pick and amount match no entry already
// present. Merging the result again with the same records adds nothing.
func Merge(server []users.Prediction, local []localstore.Record) []Entry {
	out := make([]Entry, 0, len(server)+len(local))
	seen := make(map[string]struct{}, len(server)+len(local))
	for _, p := range server {
		e := Entry{GameID: p.GameID, Pick: p.Pick, Amount: p.Amount, Result: p.Result, Source: SourceServer}
		seen[e.identity()] = struct{}{}
		out = append(out, e)
	}
	for _, r := range local {
		e := Entry{GameID: r.GameID, Pick: r.Pick, Amount: r.Amount, Result: r.Result, Source: SourceLocal}
		id := e.identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, e)
	}
	return out
}
