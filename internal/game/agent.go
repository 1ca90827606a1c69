package game

// Decision is an agent's chosen action with an optional explanation.
type Decision struct {
	Action    Action
	Reasoning string
}

// Agent is anything, human or AI, that decides for a seat. Agents receive an
// immutable snapshot that includes the legal actions and must not hold on to
// the hand itself.
type Agent interface {
	MakeDecision(s Snapshot) Decision
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(s Snapshot) Decision

func (f AgentFunc) MakeDecision(s Snapshot) Decision { return f(s) }
