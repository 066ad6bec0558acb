package pipeline

import (
	"sort"
	"strings"
	"unicode"

	"courieraudit/pkg/contracts/domain"
)

// AliasTable resolves raw header spellings to canonical field names.
// It is immutable after construction and safe for concurrent reads.
type AliasTable struct {
	byHeader map[string]string
}

// NewAliasTable builds a lookup table from canonical field name to accepted
// spellings. Every spelling is pre-normalized with the same transform
// applied to incoming headers, so matching is insensitive to casing,
// whitespace, and punctuation. The canonical name itself always matches.
func NewAliasTable(aliases map[string][]string) *AliasTable {
	byHeader := make(map[string]string)
	for field, spellings := range aliases {
		byHeader[NormalizeHeader(field)] = field
		for _, spelling := range spellings {
			byHeader[NormalizeHeader(spelling)] = field
		}
	}
	return &AliasTable{byHeader: byHeader}
}

// Resolve maps a raw header to its canonical field name.
func (t *AliasTable) Resolve(header string) (string, bool) {
	field, ok := t.byHeader[NormalizeHeader(header)]
	return field, ok
}

// NormalizeHeader strips leading/trailing whitespace, lowercases, and
// collapses every run of non-alphanumeric characters to a single
// underscore. "Expected Charge as per X (Rs.)" becomes
// "expected_charge_as_per_x_rs".
func NormalizeHeader(header string) string {
	var b strings.Builder
	b.Grow(len(header))

	pendingSep := false
	for _, r := range strings.TrimSpace(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// NormalizeFile resolves one file's headers against the alias table and
// rewrites its rows onto canonical field names. Headers matching no alias
// are carried through as extras under their normalized spelling. If any
// required canonical field has no mapped header, the whole file is rejected
// with a FileError listing the missing names and no rows are produced.
func NormalizeFile(file domain.FileRows, table *AliasTable) ([]domain.NormalizedRow, *domain.FileError) {
	type mapping struct {
		canonical string
		extra     string
	}

	mappings := make(map[string]mapping, len(file.Headers))
	covered := make(map[string]bool)
	for _, header := range file.Headers {
		if field, ok := table.Resolve(header); ok {
			mappings[header] = mapping{canonical: field}
			covered[field] = true
			continue
		}
		mappings[header] = mapping{extra: NormalizeHeader(header)}
	}

	var missing []string
	for _, field := range domain.RequiredFields {
		if !covered[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.FileError{SourceFile: file.Name, Missing: missing}
	}

	rows := make([]domain.NormalizedRow, 0, len(file.Rows))
	for i, raw := range file.Rows {
		row := domain.NormalizedRow{
			Fields:         make(map[string]string),
			SourceFile:     file.Name,
			SourceRowIndex: i,
		}
		for _, header := range file.Headers {
			value, ok := raw[header]
			if !ok {
				continue
			}
			m := mappings[header]
			if m.canonical != "" {
				row.Fields[m.canonical] = value
				continue
			}
			if m.extra != "" {
				if row.Extras == nil {
					row.Extras = make(map[string]string)
				}
				row.Extras[m.extra] = value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Normalize processes every file independently and concatenates the
// surviving rows in the supplied file order. Rejected files contribute a
// FileError instead of rows; sibling files are unaffected.
func Normalize(files []domain.FileRows, table *AliasTable) ([]domain.NormalizedRow, []domain.FileError) {
	var rows []domain.NormalizedRow
	var fileErrors []domain.FileError
	for _, file := range files {
		fileRows, ferr := NormalizeFile(file, table)
		if ferr != nil {
			fileErrors = append(fileErrors, *ferr)
			continue
		}
		rows = append(rows, fileRows...)
	}
	return rows, fileErrors
}
