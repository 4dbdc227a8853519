package platform

import "context"

// GoogleUsers returns the end users who signed in with Google.
func (c *Client) GoogleUsers(ctx context.Context) (*UserRoster, error) {
	return c.roster(ctx, "users.google", c.users.Google)
}

// AllUsers returns every user known to the backend.
func (c *Client) AllUsers(ctx context.Context) (*UserRoster, error) {
	return c.roster(ctx, "users.all", c.users.All)
}

// GoogleUsersStats returns end user counts.
func (c *Client) GoogleUsersStats(ctx context.Context) (*GoogleUsersStats, error) {
	resp, err := c.Get(ctx, c.users.GoogleStats)
	if err != nil {
		c.logFailure(ctx, "users.stats", err)
		return nil, err
	}
	return decodeEntity[GoogleUsersStats](ctx, c, "users.stats", resp)
}

func (c *Client) roster(ctx context.Context, op, endpoint string) (*UserRoster, error) {
	resp, err := c.Get(ctx, endpoint)
	if err != nil {
		c.logFailure(ctx, op, err)
		return nil, err
	}
	roster, err := decodeEntity[UserRoster](ctx, c, op, resp)
	if err != nil {
		return nil, err
	}
	if roster.Count == 0 {
		roster.Count = len(roster.Users)
	}
	return roster, nil
}

// UserEndpoints returns the configured roster paths.
func (c *Client) UserEndpoints() UserEndpoints {
	return c.users
}
