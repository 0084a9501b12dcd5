// Command certify replays the supplier's certification scenarios against the configured
// ETG environment and records every request and response in a log file.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"staybridge/config"
	"staybridge/models"
	"staybridge/services/booking"
	"staybridge/services/supplier"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	dateLayout      = "2006-01-02"
	maxPrebookTries = 5
)

func main() {
	var (
		checkin  = pflag.String("checkin", "", "check-in date (YYYY-MM-DD), defaults to 30 days from today")
		nights   = pflag.Int("nights", 4, "length of stay")
		logPath  = pflag.String("log", "certification_logs.txt", "file receiving the full request/response log")
		only     = pflag.IntSlice("case", nil, "run only these scenario numbers")
		currency = pflag.String("currency", "USD", "search currency")
	)
	pflag.Parse()

	config.LoadConfig()
	logger, closeLog, err := newLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "certify: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	in := time.Now().AddDate(0, 0, 30)
	if *checkin != "" {
		in, err = time.Parse(dateLayout, *checkin)
		if err != nil {
			logger.Fatal("invalid check-in date", zap.Error(err))
		}
	}

	client := supplier.NewClient(supplier.Config{
		BaseURL:        config.AppConfig.ETGBaseURL,
		KeyID:          config.AppConfig.ETGKeyID,
		APIKey:         config.AppConfig.ETGAPIKey,
		Timeout:        config.AppConfig.ETGTimeout,
		RequestsPerSec: config.AppConfig.ETGRequestsPerSec,
	}, logger)

	r := &runner{
		api: client,
		orchestrator: booking.NewOrchestrator(client, logger,
			booking.WithPollInterval(config.AppConfig.BookingPollInterval),
			booking.WithMaxPollAttempts(config.AppConfig.BookingMaxPollAttempts),
		),
		logger:   logger,
		checkin:  in.Format(dateLayout),
		checkout: in.AddDate(0, 0, *nights).Format(dateLayout),
		currency: *currency,
	}

	logger.Info("Starting Certification Tests...",
		zap.String("checkin", r.checkin),
		zap.String("checkout", r.checkout),
	)

	failed := 0
	for i, sc := range scenarios() {
		if !selected(*only, i) {
			continue
		}
		logger.Info(fmt.Sprintf("--- Test Case %d: %s ---", i, sc.Name))
		if err := r.run(context.Background(), i, sc); err != nil {
			failed++
			fields := []zap.Field{zap.Error(err)}
			if code := supplier.RejectionCode(err); code != "" {
				fields = append(fields, zap.String("supplier_code", code))
			}
			logger.Error(fmt.Sprintf("Test Case %d Failed", i), fields...)
		}
	}

	if failed > 0 {
		logger.Warn("certification finished with failures", zap.Int("failed", failed))
		closeLog()
		os.Exit(1)
	}
	logger.Info("certification finished")
}

func selected(only []int, i int) bool {
	if len(only) == 0 {
		return true
	}
	for _, n := range only {
		if n == i {
			return true
		}
	}
	return false
}

// newLogger writes progress to stdout and everything, supplier bodies included, to path.
// The file is truncated so each run leaves a single transcript.
func newLogger(path string) (*zap.Logger, func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(f), zapcore.DebugLevel),
	)
	logger := zap.New(core)

	closed := false
	return logger, func() {
		if closed {
			return
		}
		closed = true
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}

type scenario struct {
	Name      string
	Residency string
	Guests    []supplier.GuestGroup
	// RegionID searches a whole region instead of the sandbox hotel.
	RegionID int
	// Rooms, when set, turns the scenario into a full booking.
	Rooms   []models.Room
	Comment string
}

func scenarios() []scenario {
	child := 17
	return []scenario{
		{
			Name:      "Simple 1 Adult",
			Residency: "us",
			Guests:    []supplier.GuestGroup{{Adults: 1, Children: []int{}}},
		},
		{
			Name:      "CZ, 2 Adults, 2 Rooms",
			Residency: "cz",
			Guests: []supplier.GuestGroup{
				{Adults: 2, Children: []int{}},
				{Adults: 2, Children: []int{}},
			},
			Rooms: []models.Room{
				{Guests: []models.Guest{{FirstName: "Test", LastName: "AdultOne"}, {FirstName: "Test", LastName: "AdultTwo"}}},
				{Guests: []models.Guest{{FirstName: "Test", LastName: "AdultThree"}, {FirstName: "Test", LastName: "AdultFour"}}},
			},
			Comment: "Certification Test 1",
		},
		{
			Name:      "DE, 2 Adults, 1 Child (17)",
			Residency: "de",
			Guests:    []supplier.GuestGroup{{Adults: 2, Children: []int{child}}},
			Rooms: []models.Room{
				{Guests: []models.Guest{
					{FirstName: "Test", LastName: "AdultOne"},
					{FirstName: "Test", LastName: "AdultTwo"},
					{FirstName: "Test", LastName: "Child", Age: &child},
				}},
			},
			Comment: "Certification Test 2",
		},
		{
			Name:      "Real Hotel (New York)",
			Residency: "us",
			Guests:    []supplier.GuestGroup{{Adults: 2, Children: []int{}}},
			RegionID:  6195,
		},
	}
}
