package approval

import "context"

// RequestDestructive is the boolean convenience wrapper tools call before a
// destructive action. The operation id is generated when empty.
func (g *Gate) RequestDestructive(ctx context.Context, toolName, operationType, description string, parameters map[string]interface{}, operationID string) bool {
	if operationID == "" {
		operationID = GenerateOperationID(toolName, operationType)
	}

	d := g.RequestConfirmation(ctx, Request{
		OperationID:          operationID,
		ToolName:             toolName,
		OperationType:        operationType,
		Description:          description,
		Parameters:           parameters,
		ConfirmationType:     Boolean,
		RequiresConfirmation: true,
	})
	return d.Approved
}

// RequestStructured is the structured convenience wrapper. The result is
// never nil: an absent answer normalizes to {"confirmed": false}.
func (g *Gate) RequestStructured(ctx context.Context, toolName, operationType, description string, parameters map[string]interface{}, operationID string) map[string]interface{} {
	if operationID == "" {
		operationID = GenerateOperationID(toolName, operationType)
	}

	d := g.RequestConfirmation(ctx, Request{
		OperationID:          operationID,
		ToolName:             toolName,
		OperationType:        operationType,
		Description:          description,
		Parameters:           parameters,
		ConfirmationType:     Structured,
		RequiresConfirmation: true,
	})

	if d.Payload == nil {
		return map[string]interface{}{"confirmed": false}
	}
	return d.Payload
}

// RequestDestructive resolves the gate from ctx and asks for boolean
// confirmation. With no gate injected it fails closed.
func RequestDestructive(ctx context.Context, toolName, operationType, description string, parameters map[string]interface{}) bool {
	g := FromContext(ctx)
	if g == nil {
		return false
	}
	return g.RequestDestructive(ctx, toolName, operationType, description, parameters, "")
}

// RequestStructured resolves the gate from ctx and asks for structured
// confirmation. With no gate injected it fails closed.
func RequestStructured(ctx context.Context, toolName, operationType, description string, parameters map[string]interface{}) map[string]interface{} {
	g := FromContext(ctx)
	if g == nil {
		return map[string]interface{}{"confirmed": false}
	}
	return g.RequestStructured(ctx, toolName, operationType, description, parameters, "")
}
