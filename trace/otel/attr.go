package otel

import "go.opentelemetry.io/otel/attribute"

func runIDAttr(id string) attribute.KeyValue {
	return attribute.String("travai.run_id", id)
}

func producerAttr(producer string) attribute.KeyValue {
	return attribute.String("travai.producer", producer)
}

func fragmentStatusAttr(status string) attribute.KeyValue {
	return attribute.String("travai.fragment.status", status)
}

func contentLengthAttr(n int) attribute.KeyValue {
	return attribute.Int("travai.fragment.content_length", n)
}

func candidatesAttr(n int) attribute.KeyValue {
	return attribute.Int("travai.calendar.candidates", n)
}

func calendarStatusAttr(status string) attribute.KeyValue {
	return attribute.String("travai.calendar.status", status)
}

func createdAttr(n int) attribute.KeyValue {
	return attribute.Int("travai.calendar.created", n)
}

func eventDataAttr(data string) attribute.KeyValue {
	return attribute.String("event.data", data)
}
