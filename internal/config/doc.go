// Package config loads landing.yaml.
//
// Values are layered: built-in defaults, then the YAML file, then
// LANDING_* environment variables. The first underscore after the prefix
// separates the section from the key, so LANDING_LIVE_READ_TIMEOUT sets
// live.read_timeout. List values such as LANDING_SERVER_ALLOWED_ORIGINS
// are comma separated.
//
//	server:
//	  addr: ":8080"
//	  shutdown_timeout: 10s
//	  allowed_origins: ["https://example.com"]
//	  metrics: true
//	live:
//	  read_timeout: 60s
//	  heartbeat_interval: 30s
//	  locale: ru
//	site:
//	  content: content.yaml
//	  output: dist
//	log:
//	  level: info
//	  format: json
//	  file: /var/log/landing.log
//	publish:
//	  bucket: my-site
//	  prefix: www
package config
