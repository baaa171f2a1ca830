package config

// DefaultConfigYAML is the embedded default configuration. An external
// config.yaml or CARTERA_* environment variables override it.
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "cartera"
  password: "cartera"
  dbname: "cartera"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 587
  username: ""
  password: ""
  from: "Cartera"

report:
  transfer_group_id: 1
  reserved_group_max_id: 2
`)
