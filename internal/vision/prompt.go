package vision

// SystemPrompt frames the model's job for every screenshot.
const SystemPrompt = `You read the image and provide its content in a consistent, structured JSON format. ` +
	`You can create text or table slides based on the image you are given. ` +
	`If the image contains a question, try to answer it and show the answer. ` +
	`Create only one slide per question. ` +
	`Keep the slides simple and easy to read for students.`

// Instruction precedes the format example in the user message.
const Instruction = `Here is an example of the JSON you are required to provide based on the given image. ` +
	`Make sure every table row has exactly as many cells as there are headers; ` +
	`leave a cell as an empty string when it has no content. ` +
	`Use "table" slides for tabular content and "text" slides for everything else. ` +
	`Respond with the JSON object only.`

// FormatExample shows both slide types the deck builder understands.
const FormatExample = `{
  "presentation": {
    "title": "title of the presentation",
    "slides": [
      {
        "type": "table",
        "title": "slide title",
        "headers": ["header", "header"],
        "rows": [
          ["column content", "column content"],
          ["column content", "column content"]
        ]
      },
      {
        "type": "text",
        "title": "slide title",
        "content": ["first line", "second line"]
      }
    ]
  }
}`
