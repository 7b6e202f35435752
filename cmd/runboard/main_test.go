package main

import "testing"

func TestLogFlagsAreParseable(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"logtostderr", "v", "log_dir"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("--%s is not registered on the root command", name)
		}
	}
}

func TestViewCommandFlags(t *testing.T) {
	root := newRootCommand()
	view, _, err := root.Find([]string{"view"})
	if err != nil {
		t.Fatalf("view command: %v", err)
	}
	for _, name := range []string{"run-id", "experiment-id", "tab", "server"} {
		if view.Flags().Lookup(name) == nil {
			t.Fatalf("--%s is not registered on view", name)
		}
	}
}
