package query

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/georgefloros/sift-go/internal/value"
)

// whereNode implements $where. The script is held opaque at compile time;
// the JS host reports parse errors on first evaluation.
type whereNode struct {
	script string
}

func (n whereNode) Match(ctx *Context, doc value.Value) (bool, error) {
	if ctx.Where == nil {
		return false, NewEvaluationError("$where", n.script, "no script host configured")
	}
	ok, err := ctx.Where.Evaluate(n.script, doc)
	if err != nil {
		if qe, isTyped := err.(*Error); isTyped {
			return false, qe
		}
		return false, NewEvaluationError("$where", n.script, "%v", err)
	}
	return ok, nil
}

func compileWhere(c *compiler, op string, raw any) (Node, error) {
	if !c.opts.AllowWhere {
		return nil, NewInvalidQueryError(op, fragment(raw), "$where is disabled for this compiler")
	}
	switch script := raw.(type) {
	case string:
		return whereNode{script: script}, nil
	case primitive.JavaScript:
		return whereNode{script: string(script)}, nil
	default:
		return nil, NewInvalidQueryError(op, fragment(raw), "$where requires a script string")
	}
}
