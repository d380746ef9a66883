package sqlite

import (
	"database/sql/driver"
	"strconv"

	sqlite "modernc.org/sqlite"

	"github.com/custodia-labs/stance-cli/internal/core/domain"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("stance_prob", 1, stanceProb)
}

// stanceProb implements stance_prob(x): the score as REAL, or NULL when it
// would not satisfy any threshold comparison in the classifier.
func stanceProb(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var p domain.Probability
	switch v := args[0].(type) {
	case float64:
		p = domain.ParseProbability(strconv.FormatFloat(v, 'g', -1, 64))
	case int64:
		p = domain.NewProbability(float64(v))
	case string:
		p = domain.ParseProbability(v)
	case []byte:
		p = domain.ParseProbability(string(v))
	}
	if !p.Valid {
		return nil, nil
	}
	return p.Value, nil
}
