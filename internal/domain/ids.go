package domain

import "github.com/google/uuid"

// ValidID indica si id tiene forma de UUID. Las llaves primarias son UUID en la base;
// un id mal formado no puede resolver a ninguna fila.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
