package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one published API version.
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunsetDate,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader stamps the version headers on every response of the group.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Set("X-API-Version", version)
			if ver, ok := vm.supportedVersions[version]; ok {
				if ver.Status == "deprecated" && ver.SunsetDate != nil {
					header.Set("X-API-Deprecated", "true")
					header.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
				}
				header.Set("X-API-Message", ver.Message)
			}
			return next(c)
		}
	}
}

// APIVersionResolver rejects requests for unknown /vN prefixes and records the
// resolved version under "api_version".
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := versionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.supportedVersions[version]; !ok {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error":             "Unsupported API version",
					"supportedVersions": strings.Join(vm.versions(), ", "),
				})
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

func versionFromPath(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if len(segment) < 2 || segment[0] != 'v' {
		return ""
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return segment
}

func (vm *VersionMiddleware) versions() []string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for v := range vm.supportedVersions {
		versions = append(versions, v)
	}
	return versions
}
