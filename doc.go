/*
Package kdl parses and emits KDL documents. Both KDL v1 and v2 spellings
are accepted by default; WithVersion restricts input to one of them.

The package offers two workflows:

1. Parsing

Parse, ParseString, ParseReader and Decoder turn text into a Document, an
ordered tree of Nodes. Comments and formatting are not kept; slashdashed
elements are checked for syntax and then dropped.

	doc, err := kdl.ParseString(`server "localhost" port=8080 { tls #true }`)
	if err != nil {
		// err is a *kdl.ParseError with a line and column
	}
	port, _ := doc.At(0).Prop("port")
	n, _ := port.AsInt() // 8080

2. Building and emitting

NewNode and BuildNode assemble nodes with validation. Emit, Marshal and
Encoder write a Document in a canonical layout controlled by
EmitterOptions.

	n, err := kdl.NewNode("server").
		Args(kdl.String("localhost")).
		Prop("port", kdl.Int(8080)).
		Build()
	if err != nil {
		// handle error
	}
	out, err := kdl.Marshal(kdl.NewDocument(n), kdl.Indent(2))

Emitting a parsed document and parsing the result again yields an equal
document.
*/
package kdl
