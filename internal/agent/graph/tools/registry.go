package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/studyhall-ai/server/internal/index"
)

// Tool names. The registry is fixed; the model can only reach capabilities
// listed here, and unknown names fall back to ToolNotAvailableResult.
const (
	ToolRetrieveStudyMaterial = "retrieve_study_material"
)

// ToolNotAvailableResult is the textual tool result substituted for calls to
// names outside the registry. The loop continues instead of failing.
const ToolNotAvailableResult = "Tool not available. Please try a different approach."

// GetStudyTools returns the tool set for one study session, bound to its
// index handle. Both agent instantiations share the same registry.
func GetStudyTools(idx index.Index) []tool.BaseTool {
	return []tool.BaseTool{
		NewRetrieveTool(idx),
	}
}

// GetToolInfos collects the ToolInfo of every registered tool for model binding.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
