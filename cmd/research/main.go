// Command research runs the segment research pipeline once and prints the
// result as JSON or as a per-segment table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HurstLab/internal/di"
	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/usecase"
	"HurstLab/pkg/config"
	xhttp "HurstLab/pkg/http"
	applogger "HurstLab/pkg/logger"
	xutil "HurstLab/pkg/util"
)

type flags struct {
	Symbol    string `json:"symbol" validate:"required"`
	Frequency string `json:"frequency"`
	Start     string `json:"start" validate:"required,isodate"`
	End       string `json:"end" validate:"omitempty,isodate"`
	Signal    string `json:"signal" validate:"oneof=hurst macd"`
	Wavelet   string `json:"wavelet"`
	Cepstrum  bool   `json:"cepstrum"`
	Format    string `json:"format" validate:"oneof=json table"`
	Refresh   bool   `json:"refresh"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		f          flags
	)
	flag.StringVar(&configPath, "config", "", "config file path (defaults when empty)")
	flag.StringVar(&f.Symbol, "symbol", "", "currency pair or ticker, e.g. EURUSD")
	flag.StringVar(&f.Frequency, "frequency", "daily", "daily, weekly or monthly")
	flag.StringVar(&f.Start, "start", "", "first date, YYYY-MM-DD")
	flag.StringVar(&f.End, "end", "", "last date, YYYY-MM-DD (today when empty)")
	flag.StringVar(&f.Signal, "signal", "hurst", "hurst or macd")
	flag.StringVar(&f.Wavelet, "wavelet", "", "wavelet family (config default when empty)")
	flag.BoolVar(&f.Cepstrum, "cepstrum", false, "also compute per-segment cepstra")
	flag.StringVar(&f.Format, "format", "json", "json or table")
	flag.BoolVar(&f.Refresh, "refresh", false, "refetch the quote history before running")
	flag.Parse()

	if err := xhttp.Validate(&f); err != nil {
		for _, v := range xhttp.ValidationErrors(err) {
			fmt.Fprintln(os.Stderr, v.Message)
		}
		return 1
	}
	start, _ := xutil.ParseTime(f.Start)
	end := xutil.TruncateDay(xutil.ParseTimeDefault(f.End, time.Now().UTC()))

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	tool, err := di.InitializeTool(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		return 1
	}
	defer func() {
		if err := tool.Close(); err != nil {
			tool.Logger.Warn("close error", applogger.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.Refresh {
		n, err := tool.Refresher.Refresh(ctx, f.Symbol, domrepo.NormalizeFrequency(f.Frequency))
		if err != nil {
			tool.Logger.Error("refresh failed", applogger.Error(err))
			return 1
		}
		tool.Logger.Info("quotes refreshed", applogger.String("symbol", f.Symbol), applogger.Int("rows", n))
	}

	began := time.Now()
	res, err := tool.Research.Run(ctx, usecase.ResearchParams{
		Symbol:    f.Symbol,
		Frequency: domrepo.NormalizeFrequency(f.Frequency),
		Start:     start,
		End:       end,
		Signal:    models.SignalKind(f.Signal),
		Wavelet:   f.Wavelet,
		Cepstrum:  f.Cepstrum,
	})
	if err != nil {
		tool.Logger.Error("research failed", applogger.String("kind", errs.Kind(err)), applogger.Error(err))
		return 1
	}

	if f.Format == "table" {
		renderTable(os.Stdout, res)
	} else {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			tool.Logger.Error("encode result", applogger.Error(err))
			return 1
		}
	}
	tool.Logger.Debug("research done", applogger.Int("segments", len(res.Segments)), applogger.Duration("took", time.Since(began)))
	return 0
}
