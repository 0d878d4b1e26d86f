package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# CovTrack configuration
version: "1.0"

# Input datasets
data:
  geojson: data/states_india.geojson   # GeoJSON feature collection of state boundaries
  states: data/statewisedata.csv       # state,totalcases,deaths,cured[,...]
  daily: data/covdata.csv              # [index,]date,new_cases,new_deaths
  name_property: st_nm                 # feature property holding the state name
  code_property: state_code            # feature property holding the state code

# Web dashboard
server:
  addr: localhost:8050
  base_path: /dash/
  debug: false                 # reload datasets when the files change
  read_header_timeout: 5s
  shutdown_timeout: 10s

# Choropleth map
map:
  width: 640
  height: 700
  center_lat: 24
  low_color: "#0d0887"
  high_color: "#f0f921"

# Terminal and export output
output:
  default_format: text         # text|json|csv|markdown|xlsx
  color_mode: auto             # auto|always|never
  verbose: false
`
}

// MinimalSampleConfig returns a configuration with only the data paths
func MinimalSampleConfig() string {
	return `version: "1.0"
data:
  geojson: data/states_india.geojson
  states: data/statewisedata.csv
  daily: data/covdata.csv
`
}
