package core

// Verbose is named by an arguments pattern, so calls passing it are matched
// by the name it reads as at the call site, not by its value.
const Verbose = 3

// FeatureFlag is deny-listed as a field.
var FeatureFlag = false

// Config's Insecure field is deny-listed; the struct itself carries no rule.
type Config struct {
	Insecure bool
	Timeout  int
}

// Client's Delete method is deny-listed; Get is not.
type Client struct{}

func (c *Client) Delete(scope string) {}

func (c *Client) Get(scope string) string { return "" }

// Registry is deny-listed with a wildcard member, so every method call on it
// is reported.
type Registry struct{}

func (r Registry) Get(name string) string { return "" }

func (r Registry) Put(name, value string) {}

// Box exercises matching on methods of generic types: the rule names the
// declared type parameter.
type Box[T any] struct{ v T }

func (b Box[T]) Put(v T) {}

func Legacy() {}

func Modern() {}

func Write(s string) {}

func Mode(name string, level int) {}

func Handle(sink interface{}) {}

func Option(level int) {}

func Trace(tag string) {}

func Load[T any](src T) T { return src }
