package core

// Category groups related commands for presentation purposes.
type Category struct {
	Handle
	name        string
	description string
}

func newCategory(id string) *Category {
	return &Category{Handle: newHandle(id)}
}

// Define gives the category a name and description. Re-defining an
// already defined category is allowed.
func (c *Category) Define(name, description string) {
	c.name = name
	c.description = description
	c.defined = true
}

// Undefine clears the definition. The category stays registered under
// its id.
func (c *Category) Undefine() {
	c.name = ""
	c.description = ""
	c.defined = false
}

func (c *Category) Name() (string, error) {
	if err := c.checkDefined("category"); err != nil {
		return "", err
	}
	return c.name, nil
}

func (c *Category) Description() (string, error) {
	if err := c.checkDefined("category"); err != nil {
		return "", err
	}
	return c.description, nil
}
