package forger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chainsoffoods/foodchain/internal/ledger"
	"github.com/chainsoffoods/foodchain/internal/model"
)

// ErrDifferentDelegate is returned when a forging request names an address
// other than the locally configured delegate.
var ErrDifferentDelegate = errors.New("invalid delegate info")

// Runner executes an external command and returns its combined output.
// The concrete runner shells out; tests substitute a fake.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

// Service wraps the node tooling behind the operator endpoints.
type Service struct {
	account   *DelegateAccount
	run       Runner
	facade    *ledger.Facade
	exportDir string
	log       *zap.Logger
}

// NewService creates the operator service for a loaded delegate account.
func NewService(account *DelegateAccount, facade *ledger.Facade, exportDir string, log *zap.Logger) *Service {
	return &Service{
		account:   account,
		run:       execRunner{},
		facade:    facade,
		exportDir: exportDir,
		log:       log,
	}
}

// ImportForgingState downloads the forging-state archive from another node
// host, imports it, and restarts the node process.
func (s *Service) ImportForgingState(host string) error {
	s.log.Info("starting to download forging state", zap.String("host", host))
	url := fmt.Sprintf("http://%s:10000/forger.db.tar.gz", host)
	if out, err := s.run.Run("wget", url, "-N"); err != nil {
		return fmt.Errorf("failed to download forging state: %w: %s", err, out)
	}

	s.log.Info("starting to import forging state")
	if out, err := s.run.Run("lisk-core", "forger-info:import", "forger.db.tar.gz", "--force"); err != nil {
		return fmt.Errorf("failed to import forging state: %w: %s", err, out)
	}

	if out, err := s.run.Run("pm2", "restart", "lisk-core"); err != nil {
		return fmt.Errorf("failed to restart node: %w: %s", err, out)
	}
	s.log.Info("node restarted after forging-state import")
	return nil
}

// ExportForgingState exports the node's forging state to the export
// directory.
func (s *Service) ExportForgingState() error {
	out, err := s.run.Run("lisk-core", "forger-info:export", "-o", s.exportDir)
	if err != nil {
		return fmt.Errorf("failed to export forging state: %w: %s", err, out)
	}
	s.log.Info("forging state exported", zap.String("dir", s.exportDir))
	return nil
}

// SetForging enables or disables forging for the configured delegate. The
// request must name the local delegate address; anything else is rejected
// without touching the node.
func (s *Service) SetForging(ctx context.Context, req model.ForgingRequest) (*model.ForgingResponse, error) {
	if req.Address != s.account.Address {
		s.log.Warn("forging request for a different account", zap.String("address", req.Address))
		return nil, ErrDifferentDelegate
	}

	var out string
	var err error
	if req.Forging {
		out, err = s.run.Run("lisk-core", "forging:enable",
			req.Address,
			strconv.FormatUint(req.Height, 10),
			strconv.FormatUint(req.MaxHeightPreviouslyForged, 10),
			strconv.FormatUint(req.MaxHeightPrevoted, 10),
			"--password", s.account.Password,
			"--overwrite")
	} else {
		out, err = s.run.Run("lisk-core", "forging:disable",
			req.Address,
			"--password", s.account.Password)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle forging: %w: %s", err, out)
	}

	if resp, ok := parseForgingOutput(out); ok {
		return resp, nil
	}

	// The CLI output was not parseable; fall back to asking the node.
	status, err := s.facade.ForgingStatus(ctx)
	if err != nil {
		return &model.ForgingResponse{Address: req.Address, Forging: false}, nil
	}
	var statuses []model.ForgingResponse
	if err := json.Unmarshal(status, &statuses); err != nil || len(statuses) == 0 {
		return &model.ForgingResponse{Address: req.Address, Forging: false}, nil
	}
	return &statuses[0], nil
}

func parseForgingOutput(out string) (*model.ForgingResponse, bool) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(out, "Forging status:", ""))
	var resp model.ForgingResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
