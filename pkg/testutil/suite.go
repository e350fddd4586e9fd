package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DatasetSuite provides base functionality for tests that write datasets.
// Every test gets its own directory, context and Telemetry.
type DatasetSuite struct {
	suite.Suite

	Telemetry *Telemetry

	ctx       context.Context
	cancel    context.CancelFunc
	dir       string
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *DatasetSuite) SetupSuite() {
	s.startTime = time.Now()
}

// TearDownSuite runs after all tests in the suite
func (s *DatasetSuite) TearDownSuite() {
	s.T().Logf("Dataset suite completed in %v", time.Since(s.startTime))
}

// SetupTest runs before each test
func (s *DatasetSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	s.dir = s.T().TempDir()
	s.Telemetry = NewTelemetry(s.T(), "soa_suite")
}

// TearDownTest runs after each test
func (s *DatasetSuite) TearDownTest() {
	s.cancel()
}

// Context returns the test context
func (s *DatasetSuite) Context() context.Context {
	return s.ctx
}

// TempDir returns the directory of the running test
func (s *DatasetSuite) TempDir() string {
	return s.dir
}

// Dir returns a named subdirectory of TempDir, creating it.
func (s *DatasetSuite) Dir(name string) string {
	path := filepath.Join(s.dir, name)
	require.NoError(s.T(), os.MkdirAll(path, 0o755))
	return path
}

// CreateTempFile creates a file with content under TempDir
func (s *DatasetSuite) CreateTempFile(name string, content []byte) string {
	path := filepath.Join(s.dir, name)
	require.NoError(s.T(), os.WriteFile(path, content, 0o644))
	return path
}
