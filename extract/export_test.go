package extract

var ExtractJSON = extractJSON
