package console

import (
	"fmt"

	"go.uber.org/zap"
)

// Login asks for manager credentials once and reports whether they match.
func (c *Console) Login() bool {
	c.init()

	fmt.Fprintln(c.Out, "Please login as manager to continue.")
	username, ok := c.prompt("Username: ")
	if !ok {
		fmt.Fprintln(c.Out, "Login failed.")
		return false
	}

	fmt.Fprint(c.Out, "Password: ")
	password, err := c.readPassword()
	if err != nil {
		c.Log.Warn("read password failed", zap.Error(err))
		fmt.Fprintln(c.Out, "Login failed.")
		return false
	}

	if !c.Store.Authenticate(username, password) {
		c.Log.Warn("login failed", zap.String("username", username))
		fmt.Fprintln(c.Out, "Login failed.")
		return false
	}

	c.Log.Info("login", zap.String("username", username))
	fmt.Fprintf(c.Out, "Login success. Welcome, %s!\n", username)
	return true
}

func (c *Console) readPassword() (string, error) {
	if c.ReadPassword != nil {
		return c.ReadPassword()
	}
	if !c.lines.Scan() {
		if err := c.lines.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return c.lines.Text(), nil
}
