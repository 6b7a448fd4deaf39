package form_test

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-forms/form"
	"github.com/amp-labs/amp-forms/schema/rules"
)

type profile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func Example() {
	ctx := context.Background()
	current := profile{Name: "", Age: 10}

	set := rules.New[profile]().
		Field("name", rules.Required()).
		Field("age", rules.Min(18))

	c := form.New[profile](set, func() profile { return current }, form.WithMetrics(false))
	c.TakeSnapshot()

	if err := c.Validate(ctx); err != nil {
		panic(err)
	}

	fmt.Println(c.State())

	for _, e := range c.Errors() {
		fmt.Println(e)
	}

	current.Age = 21

	if err := c.ValidateField(ctx, "age"); err != nil {
		panic(err)
	}

	fmt.Println(c.State(), c.ErrorText("name"), c.IsChanged("age"), c.IsTouched("name"))

	// Output:
	// INVALID
	// name: is required (required)
	// age: must be at least 18 (min)
	// INVALID Some(is required) Some(true) false
}
