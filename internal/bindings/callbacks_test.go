package bindings

import (
	"strings"
	"testing"
)

func TestTrampolineReusedAcrossReRegistration(t *testing.T) {
	first := SetOCRInvoker("reuse-test", func([]byte, string) (string, bool) { return "", false })
	second := SetOCRInvoker("reuse-test", func([]byte, string) (string, bool) { return "", true })
	if first != second {
		t.Fatalf("re-registration allocated a new trampoline: %#x != %#x", first, second)
	}

	other := SetOCRInvoker("reuse-test-other", func([]byte, string) (string, bool) { return "", false })
	if other == first {
		t.Fatal("distinct names must get distinct trampolines")
	}
}

func TestTrampolinesDistinctAcrossKinds(t *testing.T) {
	ocr := SetOCRInvoker("kind-test", func([]byte, string) (string, bool) { return "", false })
	post := SetPostProcessorInvoker("kind-test", func(string) (string, bool) { return "", false })
	validator := SetValidatorInvoker("kind-test", func(string) (string, bool) { return "", false })
	if ocr == post || post == validator || ocr == validator {
		t.Fatal("kinds must not share trampolines even under the same name")
	}
}

func TestSafeInvokeValidatorReportsPanicAsFailure(t *testing.T) {
	SetValidatorInvoker("panicky", func(string) (string, bool) {
		panic("exploded")
	})
	cell := cellFor(KindValidator, "panicky")

	msg, failed := safeInvokeValidator(cell, "{}")
	if !failed {
		t.Fatal("panic must surface as a validation failure")
	}
	if !strings.Contains(msg, "validator panicked") || !strings.Contains(msg, "exploded") {
		t.Fatalf("failure message = %q", msg)
	}
}

func TestSafeInvokeOCRPanicReturnsNotOK(t *testing.T) {
	SetOCRInvoker("ocr-panicky", func([]byte, string) (string, bool) {
		panic("boom")
	})
	cell := cellFor(KindOCRBackend, "ocr-panicky")

	if _, ok := safeInvokeOCR(cell, []byte{1}, "{}"); ok {
		t.Fatal("panic must surface as a failed invocation")
	}
}

func TestClearInvokerDetachesCallback(t *testing.T) {
	invoked := false
	SetPostProcessorInvoker("clearable", func(string) (string, bool) {
		invoked = true
		return "{}", true
	})
	ClearInvoker(KindPostProcessor, "clearable")

	cell := cellFor(KindPostProcessor, "clearable")
	if _, ok := safeInvokePost(cell, "{}"); ok {
		t.Fatal("cleared invoker must report failure")
	}
	if invoked {
		t.Fatal("cleared invoker must not run")
	}
}

func TestClearInvokerKeepsTrampolineForReuse(t *testing.T) {
	before := SetValidatorInvoker("sticky", func(string) (string, bool) { return "", false })
	ClearInvoker(KindValidator, "sticky")
	after := SetValidatorInvoker("sticky", func(string) (string, bool) { return "", false })
	if before != after {
		t.Fatalf("trampoline changed across clear: %#x != %#x", before, after)
	}
}

func TestCallbackKindString(t *testing.T) {
	cases := map[CallbackKind]string{
		KindOCRBackend:    "ocr_backend",
		KindPostProcessor: "post_processor",
		KindValidator:     "validator",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", int(kind), got, want)
		}
	}
}
