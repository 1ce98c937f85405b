package postgres

import (
	"context"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/jmoiron/sqlx"
)

// Columnas seleccionables por colección. Las fechas DATE salen como texto
// (YYYY-MM-DD) y los numeric como texto para no perder precisión.
var columns = map[backend.Collection][]string{
	backend.Owners: {
		"id::text AS id", "full_name", "phone", "email", "user_id::text AS user_id", "created_at",
	},
	backend.Patients: {
		"id::text AS id", "name", "species", "breed", "birth_date::text AS birth_date",
		"image_url", "status", "owner_id::text AS owner_id", "created_at",
	},
	backend.Appointments: {
		"id::text AS id", "start_time", "type", "status", "notes",
		"patient_id::text AS patient_id", "created_at",
	},
	backend.Inventory: {
		"id::text AS id", "name", "category", "quantity", "min_quantity", "unit",
		"price::text AS price", "image_url", "created_at",
	},
	backend.Transactions: {
		"id::text AS id", "description", "category", "type", "amount::text AS amount", "date", "created_at",
	},
	backend.Services: {
		"id::text AS id", "title", "description", "category", "duration",
		"price::text AS price", "old_price::text AS old_price", "promo", "icon",
	},
}

// Columnas que se pueden usar en filtros/orden/inserts (whitelist contra inyección).
var writable = map[backend.Collection]map[string]struct{}{
	backend.Owners:       set("id", "full_name", "phone", "email", "user_id", "created_at"),
	backend.Patients:     set("id", "name", "species", "breed", "birth_date", "image_url", "status", "owner_id", "created_at"),
	backend.Appointments: set("id", "start_time", "type", "status", "notes", "patient_id", "created_at"),
	backend.Inventory:    set("id", "name", "category", "quantity", "min_quantity", "unit", "price", "image_url", "created_at"),
	backend.Transactions: set("id", "description", "category", "type", "amount", "date", "created_at"),
	backend.Services:     set("id", "title", "description", "category", "duration", "price", "old_price", "promo", "icon"),
}

func set(cols ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		out[c] = struct{}{}
	}
	return out
}

// Schema es el DDL mínimo compatible (útil para levantar una base local).
const Schema = `
CREATE TABLE IF NOT EXISTS owners (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	full_name text NOT NULL,
	phone text,
	email text,
	user_id uuid,
	created_at timestamptz DEFAULT now()
);
CREATE TABLE IF NOT EXISTS patients (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL,
	species text,
	breed text,
	birth_date date,
	image_url text,
	status text,
	owner_id uuid REFERENCES owners(id),
	created_at timestamptz DEFAULT now()
);
CREATE TABLE IF NOT EXISTS appointments (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	start_time timestamptz NOT NULL,
	type text NOT NULL,
	status text,
	notes text,
	patient_id uuid REFERENCES patients(id),
	created_at timestamptz DEFAULT now()
);
CREATE TABLE IF NOT EXISTS inventory (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL,
	category text,
	quantity integer,
	min_quantity integer,
	unit text,
	price numeric(12,2),
	image_url text,
	created_at timestamptz DEFAULT now()
);
CREATE TABLE IF NOT EXISTS transactions (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	description text NOT NULL,
	category text,
	type text NOT NULL,
	amount numeric(12,2) NOT NULL,
	date timestamptz,
	created_at timestamptz DEFAULT now()
);
CREATE TABLE IF NOT EXISTS services (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title text NOT NULL,
	description text,
	category text,
	duration text,
	price numeric(12,2),
	old_price numeric(12,2),
	promo boolean DEFAULT false,
	icon text
);
CREATE TABLE IF NOT EXISTS auth_users (
	id uuid PRIMARY KEY,
	email text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	metadata jsonb NOT NULL DEFAULT '{}'::jsonb,
	created_at timestamptz NOT NULL DEFAULT now()
);
`

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
