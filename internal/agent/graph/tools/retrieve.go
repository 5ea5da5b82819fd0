package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/studyhall-ai/server/internal/index"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// NoRelevantInformation is returned to the model when the index has nothing
// for a query. It is a meaningful, LLM-readable result, not an error and not
// an empty string.
const NoRelevantInformation = "I found no relevant information in the uploaded materials for that query. Please try rephrasing your question or ask about a different topic."

const (
	retrievalTopK  = 3
	blockDelimiter = "\n\n---\n\n"
)

// RetrieveInput is the argument shape the model fills when calling the tool.
type RetrieveInput struct {
	Query string `json:"query"`
}

// retrieveTool wraps one session's vector index behind a single callable
// contract. Implemented directly as an InvokableTool so the tool result is
// the formatted text itself rather than a JSON-wrapped struct.
type retrieveTool struct {
	idx index.Index
}

// NewRetrieveTool binds a retrieval tool to the given index handle.
func NewRetrieveTool(idx index.Index) tool.InvokableTool {
	return &retrieveTool{idx: idx}
}

func (t *retrieveTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolRetrieveStudyMaterial,
		Desc: "Search and return relevant information from the uploaded study materials. Use this to find specific details about any topic covered in the documents.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     "string",
				Desc:     "What to look up in the study materials. Use the student's own wording where possible.",
				Required: true,
			},
		}),
	}, nil
}

func (t *retrieveTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var in RetrieveInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &in); err != nil {
		// some providers pass the bare query instead of a JSON object
		in.Query = argumentsInJSON
	}
	return t.Retrieve(ctx, in.Query), nil
}

// Retrieve runs the top-3 similarity query and formats each match as one
// source-attributed block. Index failures degrade to a textual result so the
// agent loop keeps going.
func (t *retrieveTool) Retrieve(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return NoRelevantInformation
	}

	matches, err := t.idx.Query(ctx, query, retrievalTopK)
	if err != nil {
		logx.Error().Err(err).Str("query", query).Msg("Index query failed inside retrieval tool")
		return fmt.Sprintf("Retrieval failed (%v). Please try again with a different query.", err)
	}
	if len(matches) == 0 {
		return NoRelevantInformation
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, fmt.Sprintf("Source: %s\n%s", m.Chunk.Meta.Source, m.Chunk.Content))
	}
	return strings.Join(blocks, blockDelimiter)
}
