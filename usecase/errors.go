package usecase

import (
	"errors"

	"github.com/satriahrh/scanspeak/server/domain"
)

// asStageError makes sure a collaborator failure carries the stage it happened in
func asStageError(stage domain.Stage, provider string, err error) error {
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		return err
	}
	return domain.NewStageError(stage, domain.KindTransport, provider, "", err)
}
