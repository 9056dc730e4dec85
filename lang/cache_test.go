package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParseString_Cache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const src = "(add 1 2)"

	first, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	second, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if first != second {
		t.Errorf("cached ParseString returned a different program")
	}

	uncached, err := ParseString(t.Context(), src, WithCache(false))
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if uncached == first {
		t.Errorf("WithCache(false) returned the cached program")
	}

	strict, err := ParseString(t.Context(), src, WithStrict(true))
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if strict == first {
		t.Errorf("strict parse shared the lenient cache entry")
	}

	// Options that do not affect parsing share an entry.
	scoped, err := ParseString(t.Context(), src, WithScope(ScopeDynamic))
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if scoped != first {
		t.Errorf("evaluation option split the cache entry")
	}

	ClearCache()

	third, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if third == first {
		t.Errorf("ClearCache did not drop the cached program")
	}
}

func TestParseString_CachesErrors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ParseString(t.Context(), "(add", WithStrict(true))
		if !errors.Is(err, ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	}

	prog, err := ParseString(t.Context(), "(add")
	if err != nil || len(prog.Expressions) != 1 {
		t.Errorf("lenient parse = %v, %v; want partial list", prog, err)
	}
}

func TestParseString_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const src = "(defun f (a) (add a 1)) (f 2)"

	var (
		wg    sync.WaitGroup
		progs = make([]*Program, 16)
	)

	for i := range progs {
		wg.Go(func() {
			prog, err := ParseString(t.Context(), src)
			if err != nil {
				t.Errorf("ParseString error: %v", err)
			}

			progs[i] = prog
		})
	}

	wg.Wait()

	for i, p := range progs {
		if p != progs[0] {
			t.Errorf("progs[%d] differs from progs[0]", i)
		}
	}
}

func TestParseReader(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const src = `(define greeting "hello")`

	fromReader, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	fromString, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if fromReader != fromString {
		t.Errorf("ParseReader and ParseString did not share a cache entry")
	}

	uncached, err := ParseReader(t.Context(), strings.NewReader(src), WithCache(false))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	if uncached == fromString || uncached.String() != fromString.String() {
		t.Errorf("uncached ParseReader = %v", uncached)
	}
}

func TestParseReader_Error(t *testing.T) {
	_, err := ParseReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}
