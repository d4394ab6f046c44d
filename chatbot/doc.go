// Package chatbot implements the conversational workflow orchestrator: a
// finite-state graph that sequences multi-turn, human-in-the-loop graph
// database tasks. The main graph waits for user input, classifies intent,
// and dispatches into task execution or onboarding; schema creation, data
// loading, and algorithm selection run as nested subgraphs with their own
// confirm/edit loops. Every wait point suspends through graph.Interrupt and
// the whole session state is checkpointed, so conversations survive process
// teardown.
package chatbot
