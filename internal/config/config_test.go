package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.True(t, cfg.Simulator.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Simulator.Interval)
	assert.Equal(t, 3*time.Second, cfg.Simulator.DemoInterval)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "PUT", "OPTIONS"}, cfg.CORS.AllowedMethods)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, 64, cfg.Notify.BufferSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SIMULATOR_INTERVAL", "250ms")
	t.Setenv("NOTIFY_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("MQTT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulator.Interval)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Notify.KafkaBrokers)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
}

func TestValidate(t *testing.T) {
	valid := Config{
		Simulator: SimulatorConfig{Enabled: true, Interval: time.Second, DemoInterval: time.Second},
	}
	require.NoError(t, valid.Validate())

	noInterval := valid
	noInterval.Simulator.Interval = 0
	assert.Error(t, noInterval.Validate())

	badQoS := valid
	badQoS.MQTT.QoS = 3
	assert.Error(t, badQoS.Validate())

	kafka := valid
	kafka.Notify.KafkaEnabled = true
	assert.Error(t, kafka.Validate())
}
