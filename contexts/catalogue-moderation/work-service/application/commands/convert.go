package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	"bibliotheque/kernel/workflow"
)

func convert(ctx context.Context, converter ports.Converter, document []byte, options ports.ConversionOptions) (string, error) {
	if converter == nil {
		return "", fmt.Errorf("%w: no converter configured", domainerrors.ErrConversionFailed)
	}
	content, err := converter.Convert(ctx, document, options)
	if err != nil {
		if errors.Is(err, workflow.ErrConversionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domainerrors.ErrConversionFailed, err)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: converter returned no text", domainerrors.ErrConversionFailed)
	}
	return content, nil
}
