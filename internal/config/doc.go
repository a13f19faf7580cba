// Package config loads the server and CLI configuration.
//
// Values are layered, each source overriding the previous one:
//
//  1. Default()
//  2. a YAML file: IDWR_CONFIG_FILE, or config.yaml / configs/config.yaml
//  3. a .env file in the working directory
//  4. the process environment, prefixed with IDWR_
//
// Nested sections map to underscored names, so samples.base_url in YAML is
// IDWR_SAMPLES_BASE_URL in the environment. List values such as
// IDWR_SAMPLES_FILES are comma separated.
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	logging:
//	  level: debug
//	  output: both
//	samples:
//	  dir: samples
//	  base_url: https://example.org/idwr/
//	  files: [yearly_disease.csv, yearly_pathogen.csv]
package config
