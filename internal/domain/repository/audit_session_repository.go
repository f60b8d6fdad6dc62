package repository

import (
	"time"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

// AuditSessionRepository define el puerto de persistencia para AuditSession.
// Las sesiones son inmutables una vez creadas; solo se permite la eliminación
// completa como acción de limpieza.
type AuditSessionRepository interface {
	Create(session *entity.AuditSession) error
	GetByID(id string) (*entity.AuditSession, error)
	// GetByTypeAndDate busca una sesión del mismo tipo cerrada el mismo día
	// (¿ya hay auditoría diaria hoy?).
	GetByTypeAndDate(sessionType string, day time.Time) (*entity.AuditSession, error)
	List(limit, offset int) ([]*entity.AuditSession, error)
	Delete(id string) error
}
