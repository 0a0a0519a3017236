package middleware

import (
	"net/http"
	"sort"
	"strings"

	"pay2u/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion describes a published API version
type APIVersion struct {
	Version string `json:"version"`
	Status  string `json:"status"` // "active", "deprecated"
	Message string `json:"message,omitempty"`
}

// VersionMiddleware tags responses with the API version and rejects unknown ones
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if ver, ok := vm.supportedVersions[version]; ok {
				if ver.Status == "deprecated" {
					c.Response().Header().Set("X-API-Deprecated", "true")
				}
				c.Response().Header().Set("X-API-Message", ver.Message)
			}
			return next(c)
		}
	}
}

// APIVersionResolver answers 404 for /vN paths whose version is not published
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersionFromPath(c.Request().URL.Path)
			if version == "" {
				return next(c)
			}
			if _, ok := vm.supportedVersions[version]; !ok {
				details := map[string]string{"supported_versions": strings.Join(vm.SupportedVersions(), ", ")}
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse(string(common.KindNotFound), "Unsupported API version", details))
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// SupportedVersions lists the published version names in order
func (vm *VersionMiddleware) SupportedVersions() []string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for version := range vm.supportedVersions {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return versions
}

func extractVersionFromPath(path string) string {
	if !strings.HasPrefix(path, "/v") {
		return ""
	}
	segment := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if len(segment) < 2 {
		return ""
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return segment
}
