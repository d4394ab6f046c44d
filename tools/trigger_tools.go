package tools

import (
	"context"
)

// triggerTools builds the reserved signal tools. They execute nothing: the
// task executor watches for their names among tool results and hands control
// to the matching sub-workflow.
func triggerTools() []*tool {
	return []*tool{
		{
			name: TriggerSchemaCreation,
			description: "Start the interactive graph-schema creation workflow. Call this tool alone, " +
				"never together with other tool calls.",
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				return "Schema creation workflow requested.", nil
			},
		},
		{
			name: TriggerLoadData,
			description: "Start the interactive data-loading workflow. Call this tool alone, " +
				"never together with other tool calls.",
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				return "Data loading workflow requested.", nil
			},
		},
		{
			name: TriggerRunAlgorithms,
			description: "Start the interactive graph-algorithm selection workflow. Call this tool alone, " +
				"never together with other tool calls.",
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				return "Algorithm workflow requested.", nil
			},
		},
	}
}
