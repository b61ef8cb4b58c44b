package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/normalize"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile — валидирует файл как JSON или JSONL и пишет валидные заказы (по одному в строке) в writer.
// JSON может содержать одну запись, массив записей или ответ API вида {"results": [...]}.
func ValidateFile(ctx context.Context, validator ports.OrderValidator, filePath string, format InputFormat, ow io.Writer) (Report, error) {
	// auto по расширению
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".jsonl":
			format = FormatJSONL
		case ".json":
			format = FormatJSON
		default:
			// по умолчанию считаем JSON
			format = FormatJSON
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, format, ow)
}

// ValidateReader — то же для потока. FormatAuto для потока означает JSONL.
func ValidateReader(ctx context.Context, validator ports.OrderValidator, ir io.Reader, format InputFormat, ow io.Writer) (Report, error) {
	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(ir)
		if err != nil {
			return Report{}, fmt.Errorf("read input: %w", err)
		}
		return validateJSONDocument(ctx, validator, raw, ow)

	case FormatJSONL, FormatAuto:
		return ValidateJSONLStream(ctx, validator, ir, ow)

	default:
		return Report{}, fmt.Errorf("unsupported format: %s", format)
	}
}

// validateJSONDocument — одна запись, массив записей или конверт {"results": [...]}.
func validateJSONDocument(ctx context.Context, validator ports.OrderValidator, raw []byte, ow io.Writer) (Report, error) {
	var rep Report
	if !json.Valid(raw) {
		err := errors.New("invalid json")
		rep.reject(1, err)
		return rep, err
	}

	if rec, err := normalize.Object(raw); err == nil {
		if _, isEnvelope := rec["results"]; !isEnvelope {
			order, err := ValidateOrderFromJSON(ctx, validator, raw)
			if err != nil {
				rep.reject(1, err)
				return rep, err
			}
			if err := writeLine(ow, order); err != nil {
				return rep, err
			}
			rep.accept(order)
			return rep, nil
		}
	}

	for i, order := range normalize.Orders(raw) {
		if err := validator.Validate(ctx, &order); err != nil {
			rep.reject(i+1, err)
			continue
		}
		if err := writeLine(ow, &order); err != nil {
			return rep, err
		}
		rep.accept(&order)
	}
	return rep, nil
}

func writeLine(ow io.Writer, v any) error {
	canonical, _ := json.Marshal(v)
	if _, err := ow.Write(canonical); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := ow.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}
