package payments

import "github.com/gin-gonic/gin"

const clientKey = "stripe"

// Use este middleware no setup do gin
func SetToContext(client *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientKey, client)
		c.Next()
	}
}

func Instance(c *gin.Context) *Client {
	v, ok := c.Get(clientKey)
	if !ok {
		return nil
	}
	client, _ := v.(*Client)
	return client
}
