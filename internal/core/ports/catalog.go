package ports

import (
	"context"

	"github.com/campusreg/registration-system/internal/core/domain"
)

// ClassCatalog resolves class identifiers to catalog entries. The catalog is
// an external collaborator: this system treats class existence and capacity
// as informational and performs no atomic seat accounting.
type ClassCatalog interface {
	Resolve(ctx context.Context, classID string) (*domain.Class, error)
	List(ctx context.Context) ([]domain.Class, error)
}
