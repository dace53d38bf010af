package advisor

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// looseAmount accepts the shapes models use for money: 95, "95", "$95", "$1,250.00", null.
// Anything unreadable decodes as zero.
type looseAmount decimal.Decimal

func (a *looseAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = looseAmount(decimal.Zero)
		return nil
	}

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		d = decimal.Zero
	}
	*a = looseAmount(d)
	return nil
}

func (a looseAmount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}
