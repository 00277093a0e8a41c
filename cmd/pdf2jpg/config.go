// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

// setDefaults registers every config key with viper so environment
// variables are seen by Unmarshal even when no config file sets the key.
func setDefaults(c types.Config) {
	viper.SetDefault("convert.dpi", c.Convert.DPI)
	viper.SetDefault("convert.quality", c.Convert.Quality)
	viper.SetDefault("convert.scale_factor", c.Convert.ScaleFactor)
	viper.SetDefault("convert.workers", c.Convert.Workers)
	viper.SetDefault("convert.input_dir", c.Convert.InputDir)
	viper.SetDefault("convert.output_dir", c.Convert.OutputDir)
	viper.SetDefault("convert.report", c.Convert.ReportPath)

	viper.SetDefault("render.backend", string(c.Render.Backend))
	viper.SetDefault("render.poppler_path", c.Render.PopplerPath)

	viper.SetDefault("server.addr", c.Server.Addr)
	viper.SetDefault("server.upload_dir", c.Server.UploadDir)
	viper.SetDefault("server.output_dir", c.Server.OutputDir)
	viper.SetDefault("server.max_upload_mb", c.Server.MaxUploadMB)
	viper.SetDefault("server.uploads_per_minute", c.Server.UploadsPerMinute)
	viper.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)

	viper.SetDefault("publish.enabled", c.Publish.Enabled)
	viper.SetDefault("publish.endpoint", c.Publish.Endpoint)
	viper.SetDefault("publish.bucket", c.Publish.Bucket)
	viper.SetDefault("publish.prefix", c.Publish.Prefix)
	viper.SetDefault("publish.region", c.Publish.Region)
	viper.SetDefault("publish.secure", c.Publish.Secure)
}

// loadConfig merges defaults, config file, PDF2JPG_* environment and bound
// flags into a Config.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("reading configuration: %w", err)
	}
	return c, nil
}

func mustBind(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}
