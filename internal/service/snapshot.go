package service

import (
	"context"

	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
)

type snapshotService struct {
	persister
}

func NewSnapshotService(engine *ledger.Engine, store SnapshotStore) SnapshotService {
	return &snapshotService{persister{engine: engine, store: store}}
}

func (s *snapshotService) Export(ctx context.Context) ([]byte, error) {
	return s.engine.ExportJSON()
}

func (s *snapshotService) Import(ctx context.Context, data []byte) error {
	if err := s.engine.ImportJSON(data); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Snapshot imported")
	s.persist(ctx, "import_snapshot")
	return nil
}
