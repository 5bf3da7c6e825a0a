package service

import (
	"github.com/pkg/errors"

	"fibobot/internal/helper"
)

// okxBar переводит таймфрейм в код бара OKX: "4h" -> "4H", "30m" -> "30m".
func okxBar(tf string) (string, error) {
	switch s := helper.NormTF(tf); s {
	case "1m", "3m", "5m", "15m", "30m":
		return s, nil

	case "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "6h":
		return "6H", nil
	case "12h":
		return "12H", nil

	case "1d":
		return "1D", nil
	case "1w":
		return "1W", nil
	}
	return "", errors.Errorf("unsupported timeframe for OKX bar: %q", tf)
}
