package postgres

import (
	"errors"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

var searchNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeSearch minúsculas sin acentos, para búsqueda insensible a tildes
// ("sesión" y "sesion" encuentran lo mismo). Se aplica igual al escribir la
// columna normalizada y al término de búsqueda.
func normalizeSearch(s string) string {
	out, _, err := transform.String(searchNormalizer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
