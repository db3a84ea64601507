package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// tenantIDFromHeader reads the tenant scope set upstream by the auth
// layer. Authentication itself lives outside this service.
func tenantIDFromHeader(c *gin.Context) snowflake.ID {
	raw := strings.TrimSpace(c.GetHeader("X-Tenant-ID"))
	if raw == "" {
		return 0
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0
	}
	return id
}
