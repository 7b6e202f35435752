package runview

import "testing"

func TestResolveBothLoading(t *testing.T) {
	r := NewResolver()
	got := r.Resolve(Outcome{Phase: Pending}, Outcome{Phase: Pending})
	if got != InitialLoading {
		t.Fatalf("expected initial-loading, got %s", got)
	}
}

func TestResolveRunNotFoundWinsOverEverything(t *testing.T) {
	cases := []Outcome{
		{Phase: Pending},
		{Phase: Succeeded},
		{Phase: Failed, Err: ErrNotFound},
		{Phase: Failed, Err: ErrOther},
	}
	for _, exp := range cases {
		r := NewResolver()
		got := r.Resolve(Outcome{Phase: Failed, Err: ErrNotFound}, exp)
		if got != RunNotFound {
			t.Fatalf("experiment outcome %+v: expected run-not-found, got %s", exp, got)
		}
	}
}

func TestResolveExperimentNotFound(t *testing.T) {
	r := NewResolver()
	got := r.Resolve(Outcome{Phase: Succeeded}, Outcome{Phase: Failed, Err: ErrNotFound})
	if got != ExperimentNotFound {
		t.Fatalf("expected experiment-not-found, got %s", got)
	}
}

func TestResolveGenericFailure(t *testing.T) {
	r := NewResolver()
	got := r.Resolve(Outcome{Phase: Succeeded}, Outcome{Phase: Failed, Err: ErrOther})
	if got != GenericError {
		t.Fatalf("expected generic-error, got %s", got)
	}
}

func TestResolveReady(t *testing.T) {
	r := NewResolver()
	got := r.Resolve(Outcome{Phase: Succeeded}, Outcome{Phase: Succeeded})
	if got != Ready {
		t.Fatalf("expected ready, got %s", got)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver()
	run := Outcome{Phase: Succeeded}
	exp := Outcome{Phase: Pending}
	first := r.Resolve(run, exp)
	second := r.Resolve(run, exp)
	if first != second {
		t.Fatalf("identical inputs diverged: %s then %s", first, second)
	}
}

func TestNoSkeletonRegressionAfterSuccess(t *testing.T) {
	r := NewResolver()
	if got := r.Resolve(Outcome{Phase: Succeeded}, Outcome{Phase: Succeeded}); got != Ready {
		t.Fatalf("setup: expected ready, got %s", got)
	}
	// background refetch puts both back in flight
	got := r.Resolve(Outcome{Phase: Pending}, Outcome{Phase: Pending})
	if got != Ready {
		t.Fatalf("refetch regressed to %s", got)
	}
}

func TestPartialSuccessSuppressesSkeleton(t *testing.T) {
	r := NewResolver()
	got := r.Resolve(Outcome{Phase: Pending}, Outcome{Phase: Succeeded})
	if got != Ready {
		t.Fatalf("expected ready once any payload observed, got %s", got)
	}
}

func TestFreshResolverForgetsHistory(t *testing.T) {
	r := NewResolver()
	r.Resolve(Outcome{Phase: Succeeded}, Outcome{Phase: Succeeded})

	// a navigation to a different run builds a new resolver
	r = NewResolver()
	got := r.Resolve(Outcome{Phase: Pending}, Outcome{Phase: Pending})
	if got != InitialLoading {
		t.Fatalf("new identity should start at initial-loading, got %s", got)
	}
}

func TestUnrecognizedErrorKindFallsToGeneric(t *testing.T) {
	r := NewResolver()
	got := r.Resolve(Outcome{Phase: Failed, Err: ErrorKind(99)}, Outcome{Phase: Succeeded})
	if got != GenericError {
		t.Fatalf("expected generic-error for unknown kind, got %s", got)
	}
}
