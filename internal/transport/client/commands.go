package client

import (
	"context"
	"fmt"
	"time"

	"github.com/ameyer/url-shortener/internal/domain"
)

// Commands provides command-line operations for the client
type Commands struct {
	client *Client
}

// NewCommands creates a new Commands instance
func NewCommands(client *Client) *Commands {
	return &Commands{
		client: client,
	}
}

// Create creates a short URL and displays the result
func (c *Commands) Create(ctx context.Context, originalURL string, alias, expiresAt string) error {
	var aliasPtr, expiresPtr *string
	if alias != "" {
		aliasPtr = &alias
	}
	if expiresAt != "" {
		expiresPtr = &expiresAt
	}

	result, err := c.client.CreateURL(ctx, originalURL, aliasPtr, expiresPtr)
	if err != nil {
		return err
	}

	fmt.Printf("Short URL created:\n")
	fmt.Printf("Short URL: %s\n", result.ShortURL)
	fmt.Printf("Created At: %s\n", result.CreatedAt.Format(time.RFC3339))

	return nil
}

// Get retrieves and displays information about a short URL
func (c *Commands) Get(ctx context.Context, shortCode string) error {
	info, err := c.client.GetURL(ctx, shortCode)
	if err != nil {
		if domain.IsNotFound(err) {
			fmt.Printf("Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Printf("URL Information:\n")
	fmt.Printf("Original URL: %s\n", info.OriginalURL)
	fmt.Printf("Created At: %s\n", info.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Click Count: %d\n", info.ClickCount)

	return nil
}

// Delete removes a short URL
func (c *Commands) Delete(ctx context.Context, shortCode string) error {
	err := c.client.DeleteURL(ctx, shortCode)
	if err != nil {
		if domain.IsNotFound(err) {
			fmt.Printf("Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Printf("Short URL '%s' deleted successfully\n", shortCode)
	return nil
}

// Analytics retrieves and displays the analytics view for a short URL
func (c *Commands) Analytics(ctx context.Context, shortCode string) error {
	analytics, err := c.client.GetAnalytics(ctx, shortCode)
	if err != nil {
		if domain.IsNotFound(err) {
			fmt.Printf("Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Printf("Analytics for '%s':\n", shortCode)
	fmt.Printf("Click Count: %d\n", analytics.ClickCount)
	if len(analytics.RecentIPs) == 0 {
		fmt.Printf("Recent IPs: none\n")
		return nil
	}
	fmt.Printf("Recent IPs:\n")
	for _, ip := range analytics.RecentIPs {
		fmt.Printf("  %s\n", ip)
	}

	return nil
}
