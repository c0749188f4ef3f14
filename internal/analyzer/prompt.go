package analyzer

// analysisPrompt fixes the output contract expected of the remote model: one
// JSON object with the six category keys, nothing else.
const analysisPrompt = `You are an expert technical analyst. Analyze the attached financial chart image and respond with a single JSON object containing exactly these keys:

- "resistance_and_support": identify the key resistance and support price levels visible on the chart
- "trends": describe the prevailing trend direction and its strength
- "chart_patterns": name any chart patterns forming or completed (triangles, head and shoulders, flags, channels, ...)
- "candlestick_patterns": name any notable candlestick patterns and what they signal
- "volume": describe the volume behavior and how it confirms or contradicts the price action
- "momentum": assess momentum, including any visible oscillator readings or divergences

Each value must be a descriptive string. Respond with ONLY the JSON object - no markdown formatting, no code fences, no commentary before or after the JSON.`
