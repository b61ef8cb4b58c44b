package validate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// maxLineSize — предел длины одной строки JSONL.
const maxLineSize = 10 << 20

// ValidateJSONLStream — построчная проверка JSONL: валидные заказы пишутся в ow в нормализованном виде,
// невалидные попадают в отчёт с номером строки. Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderValidator, ir io.Reader, ow io.Writer) (Report, error) {
	var rep Report

	sc := bufio.NewScanner(ir)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		order, err := ValidateOrderFromJSON(ctx, validator, raw)
		if err != nil {
			rep.reject(line, err)
			continue
		}
		if err := writeLine(ow, order); err != nil {
			return rep, fmt.Errorf("write line %d: %w", line, err)
		}
		rep.accept(order)
	}
	if err := sc.Err(); err != nil {
		return rep, fmt.Errorf("scan: %w", err)
	}
	return rep, nil
}
