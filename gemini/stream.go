package gemini

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"google.golang.org/genai"

	"github.com/fwojciec/minerva"
)

// stream implements [minerva.ChunkStream] by wrapping the genai SDK's
// streaming iterator with iter.Pull2.
type stream struct {
	pull func() (*genai.GenerateContentResponse, error, bool)
	stop func()
	done bool
	err  error
}

// Interface compliance check.
var _ minerva.ChunkStream = (*stream)(nil)

func newStream(iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{pull: next, stop: stop}
}

// Next returns the next chunk carrying reply text. Responses without text
// parts are skipped. Returns io.EOF when the stream is exhausted; any
// other error is terminal.
func (s *stream) Next() (minerva.Chunk, error) {
	if s.err != nil {
		return minerva.Chunk{}, s.err
	}
	if s.done {
		return minerva.Chunk{}, io.EOF
	}
	for {
		resp, err, ok := s.pull()
		if !ok {
			s.done = true
			return minerva.Chunk{}, io.EOF
		}
		if err != nil {
			s.err = fmt.Errorf("gemini: %w", err)
			return minerva.Chunk{}, s.err
		}
		if chunk, ok := convertResponse(resp); ok {
			return chunk, nil
		}
	}
}

// Close releases the underlying iterator. Closing before a terminal state
// makes subsequent Next calls fail with ErrStreamClosed.
func (s *stream) Close() error {
	s.stop()
	if !s.done && s.err == nil {
		s.err = minerva.ErrStreamClosed
	}
	return nil
}

// convertResponse extracts the text delta and any grounding metadata from
// one streamed response. Responses with no text are dropped.
func convertResponse(resp *genai.GenerateContentResponse) (minerva.Chunk, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return minerva.Chunk{}, false
	}
	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return minerva.Chunk{}, false
	}
	return minerva.Chunk{
		Text:      sb.String(),
		Grounding: ConvertGrounding(cand.GroundingMetadata),
	}, true
}

// ConvertGrounding maps the SDK's grounding metadata to the domain type.
// Chunks without a web citation are dropped; metadata that maps to nothing
// converts to nil. Exported for testing.
func ConvertGrounding(gm *genai.GroundingMetadata) *minerva.GroundingMetadata {
	if gm == nil {
		return nil
	}
	out := &minerva.GroundingMetadata{}
	for _, gc := range gm.GroundingChunks {
		if gc == nil || gc.Web == nil {
			continue
		}
		out.Chunks = append(out.Chunks, minerva.GroundingChunk{
			URI:   gc.Web.URI,
			Title: gc.Web.Title,
		})
	}
	if gm.SearchEntryPoint != nil {
		out.SearchEntryPoint = gm.SearchEntryPoint.RenderedContent
	}
	if len(out.Chunks) == 0 && out.SearchEntryPoint == "" {
		return nil
	}
	return out
}
