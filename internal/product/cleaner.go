package product

import (
	"regexp"
	"strings"
)

// markup matches anything between angle brackets on a single line.
var markup = regexp.MustCompile(`<.*?>`)

// entities are replaced one after the other, in this order.
var entities = [...][2]string{
	{"&nbsp;", " "},
	{"&eacute;", "é"},
	{"&agrave;", "à"},
	{"&egrave;", "è"},
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&lt;", "<"},
	{"&gt;", ">"},
}

// Clean returns a normalized copy of r: markup stripped, values trimmed,
// the fixed entity set decoded, the display size given a decimal point and
// the warranty scope dropped. r is not modified.
func Clean(r Record) Record {
	out := make(Record, len(r))
	for name, value := range r {
		if name == FieldWarrantyScope {
			continue
		}
		value = cleanValue(value)
		if name == FieldDisplaySize {
			value = strings.ReplaceAll(value, ",", ".")
		}
		out[name] = value
	}
	return out
}

func cleanValue(v string) string {
	v = strings.TrimSpace(markup.ReplaceAllString(v, ""))
	for _, e := range entities {
		v = strings.ReplaceAll(v, e[0], e[1])
	}
	return v
}
