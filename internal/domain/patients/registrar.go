package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vetclinic-dashboard/internal/domain/owners"
	"vetclinic-dashboard/internal/platform/logger"
	"vetclinic-dashboard/internal/ports/backend"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTutorNotSelected = errors.New("tutor não selecionado")
)

// NewTutor son los datos de un tutor a crear junto con el paciente.
type NewTutor struct {
	FullName string
	Phone    string
	Email    string // opcional
}

type RegisterInput struct {
	Name      string
	Species   string
	Breed     string
	BirthDate string // YYYY-MM-DD opcional
	ImageURL  string

	// Exactamente uno de los dos: NewTutor (tutor nuevo) u OwnerID (existente).
	NewTutor *NewTutor
	OwnerID  string
}

type ownerInsert struct {
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
}

type patientInsert struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     *string `json:"breed"`
	BirthDate *string `json:"birth_date"`
	ImageURL  *string `json:"image_url"`
	OwnerID   string  `json:"owner_id"`
	Status    Status  `json:"status"`
}

// Registrar es el alta de paciente: tutor opcional + paciente, sin transacción.
// Si el insert del paciente falla, el tutor recién creado queda guardado.
type Registrar struct {
	gw     backend.Gateway
	reload func(ctx context.Context)
	log    logger.Logger
}

// NewRegistrar recibe el hook de recarga de la vista de pacientes (puede ser nil).
func NewRegistrar(gw backend.Gateway, reload func(ctx context.Context), log logger.Logger) *Registrar {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registrar{gw: gw, reload: reload, log: log}
}

func (r *Registrar) Register(ctx context.Context, in RegisterInput) (Patient, error) {
	if err := validate(in); err != nil {
		return Patient{}, err
	}

	ownerID := strings.TrimSpace(in.OwnerID)
	var owner *owners.Owner
	if in.NewTutor != nil {
		o, err := r.createOwner(ctx, *in.NewTutor)
		if err != nil {
			return Patient{}, err
		}
		ownerID = o.ID
		owner = &o
	}
	if ownerID == "" {
		return Patient{}, ErrTutorNotSelected
	}

	row, err := backend.Encode(patientInsert{
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		Breed:     nullable(in.Breed),
		BirthDate: nullable(in.BirthDate),
		ImageURL:  nullable(in.ImageURL),
		OwnerID:   ownerID,
		Status:    StatusHealthy,
	})
	if err != nil {
		return Patient{}, err
	}

	created, err := r.gw.Insert(ctx, backend.Patients, row)
	if err != nil {
		r.log.Warn("patient insert failed", map[string]any{"owner_id": ownerID, "error": err})
		return Patient{}, err
	}

	p, err := backend.DecodeOne[Patient](created)
	if err != nil {
		return Patient{}, err
	}
	if p.Owner == nil {
		p.Owner = owner
	}

	r.log.Info("patient registered", map[string]any{"patient_id": p.ID, "owner_id": ownerID})

	if r.reload != nil {
		r.reload(ctx)
	}
	return p, nil
}

func (r *Registrar) createOwner(ctx context.Context, t NewTutor) (owners.Owner, error) {
	row, err := backend.Encode(ownerInsert{
		FullName: strings.TrimSpace(t.FullName),
		Phone:    strings.TrimSpace(t.Phone),
		Email:    nullable(t.Email),
	})
	if err != nil {
		return owners.Owner{}, err
	}

	created, err := r.gw.Insert(ctx, backend.Owners, row)
	if err != nil {
		r.log.Warn("owner insert failed", map[string]any{"error": err})
		return owners.Owner{}, err
	}

	o, err := backend.DecodeOne[owners.Owner](created)
	if err != nil {
		return owners.Owner{}, err
	}
	if o.ID == "" {
		return owners.Owner{}, fmt.Errorf("owner insert returned no id")
	}
	return o, nil
}

// validate corre antes de cualquier escritura.
func validate(in RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Species) == "" {
		return fmt.Errorf("%w: species is required", ErrInvalidInput)
	}

	if in.NewTutor != nil {
		if strings.TrimSpace(in.NewTutor.FullName) == "" || strings.TrimSpace(in.NewTutor.Phone) == "" {
			return ErrTutorNotSelected
		}
		return nil
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return ErrTutorNotSelected
	}
	return nil
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
