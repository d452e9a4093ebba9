package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/repositories/estados"
	lru "github.com/hashicorp/golang-lru/v2"
)

const estadoCacheSize = 64

// estadoCache resolves estado names to ids for the length of one run.
type estadoCache struct {
	ids *lru.Cache[string, int64]
}

func newEstadoCache() *estadoCache {
	c, err := lru.New[string, int64](estadoCacheSize)
	if err != nil {
		panic(err)
	}
	return &estadoCache{ids: c}
}

func (c *estadoCache) resolve(ctx context.Context, repo estados.Repository, name string) (int64, error) {
	if id, ok := c.ids.Get(name); ok {
		return id, nil
	}

	e, err := repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, fmt.Errorf("estado desconocido: %s", name)
		}
		return 0, err
	}

	c.ids.Add(name, e.ID)
	return e.ID, nil
}
