package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonefuse/clonefuse/domain"
)

// stubFusionService records the request it receives and returns a canned response
type stubFusionService struct {
	lastReq  *domain.FusionRequest
	response *domain.FusionResponse
	err      error
}

func (s *stubFusionService) FusePairs(ctx context.Context, req *domain.FusionRequest) (*domain.FusionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	if s.response != nil {
		return s.response, nil
	}
	return &domain.FusionResponse{Statistics: domain.NewFusionStatistics()}, nil
}

func (s *stubFusionService) ScorePair(pair *domain.CandidatePair, req *domain.FusionRequest) (*domain.FusionReport, error) {
	return nil, errors.New("not implemented")
}

type stubBundleLoader struct {
	bundle *domain.AnalysisBundle
	err    error
	calls  int
}

func (s *stubBundleLoader) LoadBundles(patterns []string, excludePatterns []string) (*domain.AnalysisBundle, error) {
	s.calls++
	return s.bundle, s.err
}

type stubFusionFormatter struct {
	err error
}

func (s *stubFusionFormatter) FormatFusionResponse(response *domain.FusionResponse, format domain.OutputFormat, writer io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := writer.Write([]byte("formatted\n"))
	return err
}

type stubConfigLoader struct {
	request *domain.FusionRequest
	err     error
}

func (s *stubConfigLoader) LoadFusionConfig(configPath string) (*domain.FusionRequest, error) {
	return s.request, s.err
}

func (s *stubConfigLoader) GetDefaultFusionConfig() *domain.FusionRequest {
	return domain.DefaultFusionRequest()
}

// passthroughWriter writes straight to the provided writer, ignoring paths
type passthroughWriter struct{}

func (passthroughWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	return writeFunc(writer)
}

func newFuseUseCaseForTest(service *stubFusionService, loader *stubBundleLoader) *FuseUseCase {
	return NewFuseUseCase(service, loader, &stubFusionFormatter{}, &stubConfigLoader{}, passthroughWriter{})
}

func validFuseRequest(buf *bytes.Buffer) domain.FusionRequest {
	req := *domain.DefaultFusionRequest()
	req.OutputWriter = buf
	req.Pairs = []*domain.CandidatePair{
		{A: &domain.CodeUnit{File: "a.py", Function: "f"}, B: &domain.CodeUnit{File: "b.py", Function: "g"}},
	}
	return req
}

func TestFuseUseCaseExecute(t *testing.T) {
	t.Run("scores supplied pairs and writes output", func(t *testing.T) {
		service := &stubFusionService{}
		loader := &stubBundleLoader{}
		uc := newFuseUseCaseForTest(service, loader)

		var buf bytes.Buffer
		response, err := uc.Execute(context.Background(), validFuseRequest(&buf))
		require.NoError(t, err)
		require.NotNil(t, response)

		assert.Equal(t, "formatted\n", buf.String())
		assert.Equal(t, 0, loader.calls, "bundle loader should not run when pairs are supplied")
	})

	t.Run("loads bundles when no pairs supplied", func(t *testing.T) {
		service := &stubFusionService{}
		loader := &stubBundleLoader{
			bundle: &domain.AnalysisBundle{
				Units: []*domain.CodeUnit{
					{File: "a.py", Function: "f", Code: "x = 1"},
					{File: "b.py", Function: "g", Code: "x = 1"},
				},
			},
		}
		uc := newFuseUseCaseForTest(service, loader)

		var buf bytes.Buffer
		req := validFuseRequest(&buf)
		req.Pairs = nil
		req.InputPatterns = []string{"*.bundle.json"}

		_, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 1, loader.calls)
		require.NotNil(t, service.lastReq)
		assert.Len(t, service.lastReq.Pairs, 1)
	})

	t.Run("rejects invalid request", func(t *testing.T) {
		uc := newFuseUseCaseForTest(&stubFusionService{}, &stubBundleLoader{})

		var buf bytes.Buffer
		req := validFuseRequest(&buf)
		req.MinScore = 1.5

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("fails without output writer", func(t *testing.T) {
		uc := newFuseUseCaseForTest(&stubFusionService{}, &stubBundleLoader{})

		req := validFuseRequest(&bytes.Buffer{})
		req.OutputWriter = nil

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output writer")
	})

	t.Run("propagates service errors", func(t *testing.T) {
		service := &stubFusionService{err: errors.New("boom")}
		uc := newFuseUseCaseForTest(service, &stubBundleLoader{})

		var buf bytes.Buffer
		_, err := uc.Execute(context.Background(), validFuseRequest(&buf))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fusion scoring failed")
	})

	t.Run("propagates bundle loader errors", func(t *testing.T) {
		loader := &stubBundleLoader{err: errors.New("no bundles")}
		uc := newFuseUseCaseForTest(&stubFusionService{}, loader)

		var buf bytes.Buffer
		req := validFuseRequest(&buf)
		req.Pairs = nil
		req.InputPatterns = []string{"*.bundle.json"}

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load analysis bundles")
	})
}

func TestFuseUseCaseMergeConfiguration(t *testing.T) {
	uc := newFuseUseCaseForTest(&stubFusionService{}, &stubBundleLoader{})

	configReq := *domain.DefaultFusionRequest()
	configReq.MinScore = 0.5
	configReq.OutputFormat = domain.OutputFormatJSON

	requestReq := *domain.DefaultFusionRequest()
	requestReq.SortBy = domain.SortByType
	var buf bytes.Buffer
	requestReq.OutputWriter = &buf

	merged := uc.mergeConfiguration(configReq, requestReq)

	// File values survive where the request kept defaults
	assert.Equal(t, 0.5, merged.MinScore)
	assert.Equal(t, domain.OutputFormatJSON, merged.OutputFormat)
	// Request values override where they differ from defaults
	assert.Equal(t, domain.SortByType, merged.SortBy)
	// Runtime fields always come from the request
	assert.Equal(t, &buf, merged.OutputWriter)
}
