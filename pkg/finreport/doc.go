// Package finreport generates financial analysis reports for a named
// company by orchestrating LLM calls through a fixed, quality-gated
// pipeline.
//
// The pipeline runs five stages in sequence: a data collector that turns
// LLM-generated queries into web search results, an analyst that extracts
// structured metrics from the collected text, a writer that drafts the
// report, an editor that polishes it, and two quality gates that decide
// whether to proceed, retry an earlier stage, or abandon the run with a
// disclaimer report. Retries are bounded by per-gate ceilings; when data
// stays insufficient past the ceiling, the run terminates early with a
// well-formed degraded report rather than an error.
//
// Basic usage:
//
//	client := llm.NewClaude(os.Getenv("ANTHROPIC_API_KEY"))
//	searcher := search.NewTavily(os.Getenv("TAVILY_API_KEY"))
//
//	pipeline, err := finreport.New(config.Default(), client, searcher)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state, err := pipeline.Run(context.Background(), "Acme Corp", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(state.FinalReport)
//
// Each Run gets an isolated State; a Pipeline is immutable after New and
// safe for concurrent Run calls. The only caller-visible failure mode is
// an unrecovered LLM transport error; search failures, unparseable LLM
// output, and quality shortfalls all resolve to a terminal State.
package finreport
