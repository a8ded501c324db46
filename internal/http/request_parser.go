package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// bodyError is a client mistake in the request body itself, as opposed to
// a missing field.
type bodyError struct {
	msg    string
	fields []string
}

func (e *bodyError) Error() string { return e.msg }

// pathID reads the {id} segment. Anything that is not an integer cannot
// name a record.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseTransactionBody decodes a JSON object into transaction fields. An
// empty body reads as an empty object. Required fields that are missing or
// null are listed in Fields.Absent, an absent or null description stays nil,
// and the amount may be a JSON number or a numeric string.
func parseTransactionBody(w http.ResponseWriter, r *http.Request) (core.Fields, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.Fields{}, &bodyError{msg: fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)}
		}
		return core.Fields{}, &bodyError{msg: "Could not read request body"}
	}

	raw := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return core.Fields{}, &bodyError{msg: "Invalid JSON body"}
		}
		if dec.More() {
			return core.Fields{}, &bodyError{msg: "Invalid JSON body"}
		}
	}

	amount, err := amountValue(raw["amount"])
	if err != nil {
		return core.Fields{}, &bodyError{msg: "Invalid amount", fields: []string{"amount"}}
	}

	f := core.Fields{
		Type:     core.TransactionType(stringValue(raw["type"])),
		Category: stringValue(raw["category"]),
		Amount:   amount,
		Date:     stringValue(raw["date"]),
	}
	for _, name := range []string{core.FieldType, core.FieldCategory, core.FieldAmount, core.FieldDate} {
		if raw[name] == nil {
			f.Absent = append(f.Absent, name)
		}
	}
	if v, ok := raw["description"]; ok && v != nil {
		f.Description = core.StringPtr(stringValue(v))
	}
	return f, nil
}

// stringValue renders scalar JSON values as text; objects, arrays and null
// read as "".
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func amountValue(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(val.String())
	case string:
		return core.ParseAmount(val)
	default:
		return decimal.Zero, core.ErrInvalidAmount
	}
}
