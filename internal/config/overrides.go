package config

import "github.com/spf13/viper"

// Keys of the settings that flags and TERMDECK_* variables can override.
const (
	KeyHTTPPort        = "http.port"
	KeyTermdatBaseURL  = "termdat.base_url"
	KeyTermdatPageSize = "termdat.page_size"
	KeyCacheDriver     = "cache.driver"
	KeyCacheAddrs      = "cache.addrs"
	KeyExportLimit     = "export.limit"
	KeyExportOutputDir = "export.output_dir"
	KeySource          = "session.default_source"
	KeyTargets         = "session.default_targets"
	KeyLogLevel        = "logging.level"
)

// ApplyOverrides copies every key set in v over the file values, then re-applies defaults.
// Call Validate afterwards.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v.IsSet(KeyHTTPPort) {
		c.HTTP.Port = v.GetInt(KeyHTTPPort)
	}
	if v.IsSet(KeyTermdatBaseURL) {
		c.Termdat.BaseURL = v.GetString(KeyTermdatBaseURL)
	}
	if v.IsSet(KeyTermdatPageSize) {
		c.Termdat.PageSize = v.GetInt(KeyTermdatPageSize)
	}
	if v.IsSet(KeyCacheDriver) {
		c.Cache.Driver = v.GetString(KeyCacheDriver)
	}
	if v.IsSet(KeyCacheAddrs) {
		c.Cache.Addrs = v.GetStringSlice(KeyCacheAddrs)
	}
	if v.IsSet(KeyExportLimit) {
		c.Export.Limit = v.GetInt(KeyExportLimit)
	}
	if v.IsSet(KeyExportOutputDir) {
		c.Export.OutputDir = v.GetString(KeyExportOutputDir)
	}
	if v.IsSet(KeySource) {
		c.Session.DefaultSource = v.GetString(KeySource)
	}
	if v.IsSet(KeyTargets) {
		c.Session.DefaultTargets = v.GetStringSlice(KeyTargets)
	}
	if v.IsSet(KeyLogLevel) {
		c.Logging.Level = v.GetString(KeyLogLevel)
	}
	c.ApplyDefaults()
}
