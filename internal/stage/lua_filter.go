package stage

import (
	"context"
	"fmt"
)

const luaFilterStage = "lua-filter"

// luaFilterRunner applies the optional inline Lua predicate to each
// candidate. The expression sees the candidate as globals (locator, kind,
// size) and keeps the record when it evaluates to true. An erroring
// expression is a configuration defect and fails the run; discovery itself
// stays intact.
func luaFilterRunner(_ context.Context, in Envelope, _ Deps) (Envelope, error) {
	code := ""
	if in.Meta != nil && in.Meta.Lua != nil {
		code = in.Meta.Lua.FilterInline
	}
	if code == "" {
		return in, nil
	}

	out := in
	out.Records = nil
	for _, rec := range in.Records {
		keep, err := runLuaPredicate(code, map[string]any{
			"locator": rec.Locator,
			"kind":    rec.Kind,
			"size":    rec.Size,
		})
		if err != nil {
			return Envelope{}, fmt.Errorf("%s: %s: %v", luaFilterStage, rec.Locator, err)
		}
		if keep {
			out.Records = append(out.Records, rec)
		}
	}
	return out, nil
}

func init() { Register(luaFilterStage, luaFilterRunner) }
