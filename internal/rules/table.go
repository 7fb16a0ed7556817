package rules

// Scalar tags produced by the built-in name table.
const (
	TagNumber  = "number"
	TagBoolean = "boolean"
	TagString  = "string"
	TagFile    = "Blob | File"
	TagArray   = "array"
	TagAny     = "any"
)

// Control flags. They toggle descriptor flags and never become types.
const (
	Sometimes  = "sometimes"
	Prohibited = "prohibited"
	Required   = "required"
	Nullable   = "nullable"
	Confirmed  = "confirmed"
	Same       = "same"
	Present    = "present"
)

var controlFlags = map[string]bool{
	Sometimes:  true,
	Prohibited: true,
	Required:   true,
	Nullable:   true,
	Confirmed:  true,
	Same:       true,
	Present:    true,
}

// IsControl reports whether name is a control flag.
func IsControl(name string) bool {
	return controlFlags[name]
}

// NameTable maps a rule name to the scalar tag it implies.
type NameTable map[string]string

// Lookup returns the tag for name, or false when the name carries no type.
func (t NameTable) Lookup(name string) (string, bool) {
	tag, ok := t[name]
	return tag, ok
}

// DefaultNameTable returns the built-in rule name classification.
func DefaultNameTable() NameTable {
	t := NameTable{}
	set := func(tag string, names ...string) {
		for _, n := range names {
			t[n] = tag
		}
	}
	set(TagBoolean, "accepted", "accepted_if", "boolean")
	set(TagString,
		"active_url", "after", "after_or_equal", "alpha", "alpha_dash", "alpha_num",
		"before", "before_or_equal", "current_password", "date", "date_equals",
		"date_format", "digits", "digits_between", "email", "ends_with", "ip", "ipv4",
		"ipv6", "json", "not_regex", "password", "regex", "starts_with", "string",
		"timezone", "url", "uuid",
	)
	set(TagFile, "dimensions", "file", "image", "mimetypes", "mimes")
	set(TagNumber, "integer", "numeric")
	set(TagArray, "array")
	return t
}
