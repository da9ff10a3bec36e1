package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

var _ door.Observer = (*AppMetrics)(nil)

// AppMetrics 自定义业务指标
type AppMetrics struct {
	SerialBytesReceived prometheus.Counter
	SerialBytesSent     prometheus.Counter
	SerialReconnect     prometheus.Counter
	SerialOnline        prometheus.Gauge
	FramesTotal         *prometheus.CounterVec   // labels: cmd
	ResyncTotal         *prometheus.CounterVec   // labels: reason
	DecoderFaults       *prometheus.CounterVec   // labels: kind
	ClassifyTotal       *prometheus.CounterVec   // labels: result=ok|unknown
	RequestTotal        *prometheus.CounterVec   // labels: cmd, result
	RequestDuration     *prometheus.HistogramVec // labels: cmd
	EventsPublished     *prometheus.CounterVec   // labels: sink, result
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		SerialBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_received_total",
			Help: "Total bytes received from the serial port.",
		}),
		SerialBytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_sent_total",
			Help: "Total bytes written to the serial port.",
		}),
		SerialReconnect: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_reconnect_total",
			Help: "Serial port reopen attempts after a failure.",
		}),
		SerialOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serial_online",
			Help: "1 when the serial port is open.",
		}),
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "door_frames_total",
			Help: "Validated frames extracted by command.",
		}, []string{"cmd"}),
		ResyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "door_resync_total",
			Help: "Decoder resynchronisations by reason.",
		}, []string{"reason"}),
		DecoderFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "door_decoder_faults_total",
			Help: "Suppressed decoder faults by kind.",
		}, []string{"kind"}),
		ClassifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "door_classify_total",
			Help: "Frame classification results.",
		}, []string{"result"}),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "door_request_total",
			Help: "Outbound requests by command and result.",
		}, []string{"cmd", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "door_request_duration_seconds",
			Help:    "Outbound request round-trip time.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		}, []string{"cmd"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "door_events_published_total",
			Help: "Events handed to sinks by result.",
		}, []string{"sink", "result"}),
	}
	reg.MustRegister(
		m.SerialBytesReceived, m.SerialBytesSent, m.SerialReconnect, m.SerialOnline,
		m.FramesTotal, m.ResyncTotal, m.DecoderFaults, m.ClassifyTotal,
		m.RequestTotal, m.RequestDuration, m.EventsPublished,
	)
	return m
}

// CmdLabel 指令码标签，如 A4
func CmdLabel(cmd uint8) string { return fmt.Sprintf("%02X", cmd) }

func (m *AppMetrics) OnFrame(cmd uint8) { m.FramesTotal.WithLabelValues(CmdLabel(cmd)).Inc() }

func (m *AppMetrics) OnResync(reason door.ResyncReason) {
	m.ResyncTotal.WithLabelValues(string(reason)).Inc()
}

func (m *AppMetrics) OnFault(kind door.FaultKind) {
	m.DecoderFaults.WithLabelValues(string(kind)).Inc()
}

func (m *AppMetrics) OnClassify(_ uint8, ok bool) {
	result := "ok"
	if !ok {
		result = "unknown"
	}
	m.ClassifyTotal.WithLabelValues(result).Inc()
}

// ObserveRequest 记录下行请求结果与耗时
func (m *AppMetrics) ObserveRequest(cmd uint8, result string, d time.Duration) {
	label := CmdLabel(cmd)
	m.RequestTotal.WithLabelValues(label, result).Inc()
	m.RequestDuration.WithLabelValues(label).Observe(d.Seconds())
}

// ObserveRead 串口收到数据
func (m *AppMetrics) ObserveRead(n int) { m.SerialBytesReceived.Add(float64(n)) }

// ObserveWrite 串口写出数据
func (m *AppMetrics) ObserveWrite(n int) { m.SerialBytesSent.Add(float64(n)) }

// ObserveReconnect 串口重连
func (m *AppMetrics) ObserveReconnect() { m.SerialReconnect.Inc() }

// SetOnline 串口在线状态
func (m *AppMetrics) SetOnline(online bool) {
	if online {
		m.SerialOnline.Set(1)
		return
	}
	m.SerialOnline.Set(0)
}

// ObservePublish 事件投递结果
func (m *AppMetrics) ObservePublish(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(sink, result).Inc()
}
