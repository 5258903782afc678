package domain

import "time"

// User representa un administrador del panel que dispara sesiones de matching.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventAttendee es un comprador confirmado de un evento, tal como lo entrega
// la fuente de comercio externa. Solo identidad y contacto, sin perfil.
type EventAttendee struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
