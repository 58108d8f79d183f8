// Package tui edits a form in the terminal. Each editable attribute gets a
// prompt chosen from its view widget; invalid answers are reported and asked
// again. Prompts go through a PromptDriver, survey by default.
package tui
