package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	einomodel "github.com/cloudwego/eino/components/model"

	errx "github.com/studyhall-ai/server/internal/core/error"

	"github.com/studyhall-ai/server/internal/agent/graph/conversations"
	"github.com/studyhall-ai/server/internal/agent/graph/nodes"
	"github.com/studyhall-ai/server/internal/agent/graph/observers"
	"github.com/studyhall-ai/server/internal/agent/graph/tools"
	"github.com/studyhall-ai/server/internal/agent/model"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled agent loop with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds all configuration needed to build one agent loop. The study
// assistant and the quiz generator each get their own loop from the same
// builder: different model, system prompt, and transcript, same wiring.
type Config struct {
	ChatModel       einomodel.ToolCallingChatModel
	ModelName       string
	MessagesManager *conversations.MessagesManager
	Tools           []tool.BaseTool
	RenderSystem    func(ctx context.Context) (string, error)
	ToolMaxRounds   int
	// InvokeTimeout bounds one whole loop run (model calls and tool rounds
	// included). Zero means the caller's context governs alone.
	InvokeTimeout time.Duration
}

// GraphBuilder handles the construction of the agent loop graph
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
	timeout  time.Duration
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		SessionID: in.SessionID,
		Query:     in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", errx.WrapModel(err)
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

// BuildAgentGraph constructs, compiles, and wraps the agent loop graph.
func BuildAgentGraph(ctx context.Context, config *Config) (Runner, error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is not initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.RenderSystem == nil {
		return nil, fmt.Errorf("system prompt renderer is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	boundModel, err := builder.setupTools(ctx)
	if err != nil {
		return nil, err
	}

	builder.addNodes(boundModel)
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}

	logx.Debug().Str("model", config.ModelName).Msg("Agent graph built successfully")
	return &graphRunner{runnable: runnable, timeout: config.InvokeTimeout}, nil
}

// setupTools binds the tools to the chat model and adds the executor node.
// The loop still works tool-less: the model just answers on the first turn.
func (b *GraphBuilder) setupTools(ctx context.Context) (einomodel.ToolCallingChatModel, error) {
	boundModel := b.config.ChatModel

	if len(b.config.Tools) > 0 {
		toolInfos, err := tools.GetToolInfos(ctx, b.config.Tools)
		if err != nil {
			logx.Error().Err(err).Msg("Failed to get tool infos")
			return nil, fmt.Errorf("failed to get tool infos: %w", err)
		}

		boundModel, err = b.config.ChatModel.WithTools(toolInfos)
		if err != nil {
			logx.Error().Err(err).Msg("Failed to bind tools to chat model")
			return nil, fmt.Errorf("failed to bind tools to chat model: %w", err)
		}
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               b.config.Tools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// Gracefully handle hallucinated or malformed tool calls
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return tools.ToolNotAvailableResult, nil
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return nil, fmt.Errorf("failed to create tools node: %w", err)
	}

	b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxRounds)),
	)

	return boundModel, nil
}

// addNodes adds the processing nodes to the graph
func (b *GraphBuilder) addNodes(boundModel einomodel.ToolCallingChatModel) {
	b.graph.AddLambdaNode(nodes.NodeInputBuilder,
		nodes.NewInputBuilderNode(b.config.MessagesManager, b.config.RenderSystem),
		compose.WithStatePreHandler(nodes.NewInputBuilderPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeChatModel,
		boundModel,
		compose.WithStatePreHandler(nodes.NewChatModelPreHandler(b.config.ToolMaxRounds)),
		compose.WithStatePostHandler(nodes.NewChatModelPostHandler(b.config.MessagesManager, b.config.ModelName)),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputBuilder},
		{nodes.NodeInputBuilder, nodes.NodeChatModel},
		{nodes.NodeToolExecutor, nodes.NodeChatModel},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the model/tool alternation branch
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in branching or tool retries
	maxSteps := 10 + b.config.ToolMaxRounds*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
