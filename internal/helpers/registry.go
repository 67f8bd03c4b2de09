// Package helpers is the Helper Registry spec.md §4.8 describes: a fixed
// map from category name to the C source fragment that category
// contributes, plus the categories it depends on. The IR Generator marks a
// category live by calling ir.Module.RequireHelper during lowering; the
// Optimizer (internal/optimizer) computes the transitive closure of every
// live category over Requires and drops the rest; the Emitter renders the
// surviving fragments, in Order, ahead of the translated program.
//
// This mirrors go-dws's internal/bytecode package: OpCode there is a fixed,
// exhaustively-documented table keyed by a stable identifier (the opcode
// constant); here the table is keyed by category string instead, since the
// Emitter renders text rather than dispatching a VM loop.
package helpers

import "sort"

// Helper is one entry in the registry: a named C source fragment and the
// categories it requires to already be in scope (e.g. "trycatch" needs
// "alloc" for the jump-buffer chain's allocator).
type Helper struct {
	Category string
	Requires []string
	Source   string
}

// Order is the registry's fixed emission order: a category never precedes
// one of its own Requires, matching the dependency graph below by
// construction rather than a runtime topological sort.
var Order = []string{"alloc", "arc", "iter", "strings", "nullcoalesce", "trycatch", "thread"}

var registry = map[string]Helper{
	"alloc": {
		Category: "alloc",
		Source: `static void *btrc_alloc(size_t size) {
    void *p = calloc(1, size);
    if (!p) { fprintf(stderr, "btrc: out of memory\n"); abort(); }
    return p;
}
`,
	},
	"arc": {
		Category: "arc",
		Requires: []string{"alloc"},
		Source: `typedef struct { int __rc; void *__vtable; const char *__type_name; void (*__destroy)(); } btrc_object;

static void btrc_retain(void *obj) {
    if (obj) ((btrc_object *)obj)->__rc++;
}

static void btrc_release(void *obj) {
    if (!obj) return;
    btrc_object *o = (btrc_object *)obj;
    if (--o->__rc <= 0) {
        if (o->__destroy) o->__destroy(obj);
        else free(obj);
    }
}
`,
	},
	"iter": {
		Category: "iter",
		Source: `/* for-in lowers to an index-driven loop calling iterLen/iterGet on the
 * iterable's own type; no shared runtime support is needed beyond this
 * marker category, which exists so the Optimizer can report "iter" as a
 * live concern in diagnostics even though it contributes no C text. */
`,
	},
	"strings": {
		Category: "strings",
		Requires: []string{"alloc"},
		Source: `static char *btrc_format(const char *fmt, ...) {
    va_list args;
    va_start(args, fmt);
    va_list probe;
    va_copy(probe, args);
    int n = vsnprintf(NULL, 0, fmt, probe);
    va_end(probe);
    char *buf = (char *)btrc_alloc((size_t)n + 1);
    vsnprintf(buf, (size_t)n + 1, fmt, args);
    va_end(args);
    return buf;
}
`,
	},
	"nullcoalesce": {
		Category: "nullcoalesce",
		Source: `#define btrc_coalesce(lhs, rhs) ((lhs) != NULL ? (lhs) : (rhs))
`,
	},
	"trycatch": {
		Category: "trycatch",
		Requires: []string{"alloc"},
		Source: `typedef struct btrc_jmp_frame {
    jmp_buf buf;
    struct btrc_jmp_frame *prev;
} btrc_jmp_frame;

static _Thread_local btrc_jmp_frame *btrc_jmp_top = NULL;
static _Thread_local void *btrc_current_exception_value = NULL;

static void btrc_jmp_push(void) {
    btrc_jmp_frame *f = (btrc_jmp_frame *)btrc_alloc(sizeof(btrc_jmp_frame));
    f->prev = btrc_jmp_top;
    btrc_jmp_top = f;
}

static btrc_jmp_frame *btrc_jmp_current(void) { return btrc_jmp_top; }

static void btrc_jmp_pop(void) {
    btrc_jmp_frame *f = btrc_jmp_top;
    btrc_jmp_top = f->prev;
    free(f);
}

static void btrc_throw(void *exc) {
    btrc_current_exception_value = exc;
    if (btrc_jmp_top) longjmp(btrc_jmp_top->buf, 1);
    fprintf(stderr, "btrc: uncaught exception\n");
    abort();
}

static void *btrc_current_exception(void) { return btrc_current_exception_value; }

typedef struct { int __rc; void *__vtable; const char *__type_name; } btrc_exc_header;

static int btrc_exception_is(void *exc, const char *name) {
    if (!exc) return 0;
    return strcmp(((btrc_exc_header *)exc)->__type_name, name) == 0;
}
`,
	},
	"thread": {
		Category: "thread",
		Requires: []string{"alloc"},
		Source: `#ifndef _WIN32
typedef pthread_mutex_t btrc_mutex;

static void btrc_mutex_lock(btrc_mutex *m) { pthread_mutex_lock(m); }
static void btrc_mutex_unlock(btrc_mutex *m) { pthread_mutex_unlock(m); }

static void btrc_spawn(void *(*thunk)(void *), void *arg) {
    pthread_t t;
    pthread_create(&t, NULL, thunk, arg);
    pthread_detach(t);
}
#else
/* spawn is fire-and-forget (no join point reaches the grammar), so on a
 * platform with no pthread this falls back to running the thunk inline
 * rather than pulling in the Win32 thread API. */
typedef int btrc_mutex;

static void btrc_mutex_lock(btrc_mutex *m) { (void)m; }
static void btrc_mutex_unlock(btrc_mutex *m) { (void)m; }

static void btrc_spawn(void *(*thunk)(void *), void *arg) { thunk(arg); }
#endif
`,
	},
}

// Closure returns every category transitively required by live, in a stable
// order (Order's relative order, filtered to what's reachable), per
// spec.md §4.6's "single pass computing the transitive closure of helper
// categories".
func Closure(live map[string]bool) []string {
	need := map[string]bool{}
	var add func(cat string)
	add = func(cat string) {
		if need[cat] {
			return
		}
		h, ok := registry[cat]
		if !ok {
			return
		}
		need[cat] = true
		for _, dep := range h.Requires {
			add(dep)
		}
	}
	names := make([]string, 0, len(live))
	for cat := range live {
		names = append(names, cat)
	}
	sort.Strings(names)
	for _, cat := range names {
		add(cat)
	}

	out := make([]string, 0, len(need))
	for _, cat := range Order {
		if need[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// Render concatenates the C source for each category in categories, which
// must already be ordered (Closure's return value satisfies this).
func Render(categories []string) string {
	var out string
	for _, cat := range categories {
		if h, ok := registry[cat]; ok {
			out += h.Source
		}
	}
	return out
}
