package owners

import (
	"strings"
	"time"

	"vetclinic-dashboard/internal/ports/backend"
)

// Owner es el tutor responsable de uno o más pacientes.
type Owner struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Phone     *string    `json:"phone"`
	Email     *string    `json:"email"`
	UserID    *string    `json:"user_id"`
	CreatedAt *time.Time `json:"created_at"`
}

// Label es el texto del selector de tutor existente: "Nome (telefone)".
func (o Owner) Label() string {
	phone := ""
	if o.Phone != nil {
		phone = strings.TrimSpace(*o.Phone)
	}
	if phone == "" {
		return o.FullName
	}
	return o.FullName + " (" + phone + ")"
}

// ListQuery trae todos los tutores ordenados por nombre.
func ListQuery() backend.Query {
	return backend.Query{Collection: backend.Owners}.OrderBy("full_name", false)
}
